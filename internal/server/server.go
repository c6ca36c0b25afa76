package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sofortpay/internal/service"
	"sofortpay/internal/sofort"
)

const serviceName = "sofortpay"

type Server struct {
	svc    service.PaymentService
	logger *zap.Logger
}

func New(svc service.PaymentService, logger *zap.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"service": serviceName,
			"ts":      time.Now().UTC(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/orders", s.createOrder)
	api.POST("/orders/:id/checkout", s.checkout)

	// Gateway callbacks. Paths are part of the contract baked into the
	// initiation document; see the request codec.
	r.POST(sofort.StatusPath, s.statusNotification)
	r.GET(sofort.SuccessPath, s.success)
	r.GET(sofort.CancelPath, s.cancel)

	return r
}

type createOrderIn struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (s *Server) createOrder(c *gin.Context) {
	var in createOrderIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	order, err := s.svc.CreateOrder(c.Request.Context(), in.Amount)
	if err != nil {
		s.logger.Error("create order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":     order.ID,
		"number": order.Number,
		"amount": order.Amount,
	})
}

type checkoutIn struct {
	Reference string `json:"reference"`
}

func (s *Server) checkout(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var in checkoutIn
	_ = c.ShouldBindJSON(&in) // body is optional

	res, err := s.svc.Initiate(c.Request.Context(), orderID, in.Reference)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !res.OK() {
		// The session was rejected by the gateway; the buyer still needs
		// somewhere to go, so the cancel redirect rides along.
		c.JSON(http.StatusOK, gin.H{
			"error":        res.ErrorMessage,
			"redirect_url": res.RedirectURL,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"redirect_url": res.RedirectURL,
		"transaction":  res.ExternalTransaction,
	})
}

func (s *Server) statusNotification(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	n := sofort.ParseNotification(body)
	if err := s.svc.Reconcile(c.Request.Context(), n); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) success(c *gin.Context) {
	token := c.Query("sofort_hash")
	payment, err := s.svc.VerifySuccess(c.Request.Context(), token)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if payment == nil {
		c.Redirect(http.StatusFound, sofort.CheckoutCancelPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"order_id": payment.OrderID,
	})
}

func (s *Server) cancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"redirect_url": sofort.CheckoutCancelPath})
}

func (s *Server) writeError(c *gin.Context, err error) {
	var notFound *sofort.NotFoundError
	var validation *sofort.ValidationError
	var config *sofort.ConfigError

	switch {
	case errors.As(err, &notFound):
		// A notification naming a transaction we do not have is a
		// data-integrity problem, not noise.
		s.logger.Error("unknown transaction in notification", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation), errors.As(err, &config):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

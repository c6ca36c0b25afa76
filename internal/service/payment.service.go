package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sofortpay/internal/config"
	"sofortpay/internal/domain"
	"sofortpay/internal/repo"
	"sofortpay/internal/sofort"
	"sofortpay/pkg/metrics"
)

// PaymentService drives the gateway exchange for an order or an inbound
// notification: resolve config, build the document, send it, interpret the
// reply, persist what came back.
type PaymentService interface {
	CreateOrder(ctx context.Context, amount float64) (*domain.Order, error)
	Initiate(ctx context.Context, orderID uuid.UUID, refNumber string) (sofort.InitiationResult, error)
	Reconcile(ctx context.Context, n sofort.Notification) error
	VerifySuccess(ctx context.Context, token string) (*domain.Payment, error)
}

type paymentService struct {
	db          *sql.DB
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	lifecycle   Lifecycle
	transport   sofort.Transport
	cfg         config.Config
	logger      *zap.Logger
	locks       *txLocks
}

func NewPaymentService(
	db *sql.DB,
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	lifecycle Lifecycle,
	transport sofort.Transport,
	cfg config.Config,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		db:          db,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		lifecycle:   lifecycle,
		transport:   transport,
		cfg:         cfg,
		logger:      logger,
		locks:       newTxLocks(),
	}
}

// CreateOrder creates an order together with its sofort payment in one
// transaction. The payment starts out processing so the sweep worker picks it
// up if the gateway's notification never arrives.
func (s *paymentService) CreateOrder(ctx context.Context, amount float64) (*domain.Order, error) {
	now := time.Now()
	order := &domain.Order{
		ID:        uuid.New(),
		Number:    orderNumber(),
		Amount:    amount,
		Status:    domain.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.Reference = order.Number

	payment := &domain.Payment{
		ID:         uuid.New(),
		OrderID:    order.ID,
		Amount:     amount,
		MethodCode: domain.MethodSofort,
		State:      domain.PaymentProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.CreatePayment(ctx, tx, payment); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// Initiate opens a payment session for the order. The caller performs the
// actual redirect; gateway-side rejections come back inside the result, not
// as an error, because a cancel redirect must still be rendered.
func (s *paymentService) Initiate(ctx context.Context, orderID uuid.UUID, refNumber string) (sofort.InitiationResult, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return sofort.InitiationResult{}, err
	}
	if order == nil {
		return sofort.InitiationResult{}, &sofort.ValidationError{Reason: "order not found"}
	}

	payment, err := s.paymentRepo.FindLastByOrder(ctx, order.ID)
	if err != nil {
		return sofort.InitiationResult{}, err
	}
	if payment == nil {
		return sofort.InitiationResult{}, &sofort.ValidationError{Reason: "order has no payment"}
	}
	if err := validateMethod(payment); err != nil {
		return sofort.InitiationResult{}, err
	}

	gwCfg, err := sofort.ParseConfigKey(s.cfg.SofortConfigKey)
	if err != nil {
		return sofort.InitiationResult{}, err
	}

	token := sofort.CorrelationToken(order.Number, payment.ID.String(), s.cfg.SofortConfigKey)
	if err := s.paymentRepo.UpdateCorrelationToken(ctx, payment.ID, token); err != nil {
		return sofort.InitiationResult{}, err
	}

	reason := strings.TrimSpace(refNumber)
	if reason == "" {
		reason = order.Reference
	}

	body, err := sofort.BuildInitiationRequest(sofort.InitiationRequest{
		Amount:           order.Amount,
		CurrencyCode:     s.cfg.Currency,
		Reason:           reason,
		CorrelationToken: token,
		BaseURL:          s.cfg.BasePublicURL,
		ProjectID:        gwCfg.ProjectID,
	})
	if err != nil {
		return sofort.InitiationResult{}, err
	}

	raw := s.post(ctx, "initiation", sofort.Headers(gwCfg), body)
	res := sofort.ParseInitiationResponse(raw)

	// Persisted even on error, where it resets the field to empty.
	if err := s.paymentRepo.UpdateExternalTransaction(ctx, payment.ID, res.ExternalTransaction); err != nil {
		return sofort.InitiationResult{}, err
	}

	if res.OK() {
		metrics.IncInitiation("redirect")
		s.logger.Info("payment session opened",
			zap.String("order", order.Number),
			zap.String("transaction", res.ExternalTransaction))
	} else {
		metrics.IncInitiation("error")
		s.logger.Warn("payment session rejected",
			zap.String("order", order.Number),
			zap.String("error", res.ErrorMessage))
	}
	return res, nil
}

// Reconcile re-queries the gateway for the notified transaction and applies
// the authoritative status locally. Malformed or foreign notifications are a
// normal shape and return silently; an unknown transaction id is not.
func (s *paymentService) Reconcile(ctx context.Context, n sofort.Notification) error {
	if n.Transaction == "" {
		return nil
	}

	release := s.locks.lock(n.Transaction)
	defer release()

	payment, err := s.paymentRepo.FindByExternalTransaction(ctx, n.Transaction)
	if err != nil {
		return err
	}
	if payment == nil {
		return &sofort.NotFoundError{Transaction: n.Transaction}
	}
	if err := validateMethod(payment); err != nil {
		return err
	}

	gwCfg, err := sofort.ParseConfigKey(s.cfg.SofortConfigKey)
	if err != nil {
		return err
	}

	body, err := sofort.BuildStatusQueryRequest(n.Transaction)
	if err != nil {
		return err
	}

	raw := s.post(ctx, "status_query", sofort.Headers(gwCfg), body)
	details := sofort.ParseStatusResponse(raw)

	entry := sofort.DefaultAuditEntry
	label := "none"
	var transitionErr error
	if details != nil {
		switch sofort.TransitionFor(details.Status) {
		case sofort.TransitionComplete:
			transitionErr = s.lifecycle.Complete(ctx, payment)
		case sofort.TransitionVoid:
			transitionErr = s.lifecycle.Void(ctx, payment)
		}
		entry = details.AuditLine()
		if details.Status != "" {
			label = details.Status
		}
	}

	// The audit line lands regardless of how the transition went.
	if err := s.paymentRepo.AppendAuditLog(ctx, payment.ID, entry); err != nil {
		return err
	}
	metrics.IncReconciliation(label)
	if transitionErr != nil {
		return transitionErr
	}

	s.logger.Info("reconciled transaction",
		zap.String("transaction", n.Transaction),
		zap.String("status", label),
		zap.String("state", string(payment.State)))
	return nil
}

// VerifySuccess matches a success-callback token against the payment it was
// issued for, recomputing the token rather than trusting the stored copy.
// An unknown token yields (nil, nil); the caller renders the cancel path.
func (s *paymentService) VerifySuccess(ctx context.Context, token string) (*domain.Payment, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	payment, err := s.paymentRepo.FindByCorrelationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, nil
	}
	order, err := s.orderRepo.FindByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &sofort.ValidationError{Reason: "order not found"}
	}
	if sofort.CorrelationToken(order.Number, payment.ID.String(), s.cfg.SofortConfigKey) != token {
		return nil, &sofort.ValidationError{Reason: "correlation token mismatch"}
	}
	return payment, nil
}

// post runs one gateway call. A transport failure is not a distinct error
// path: the nil body it produces parses as an unauthorized/empty response.
func (s *paymentService) post(ctx context.Context, operation string, headers map[string]string, body []byte) []byte {
	start := time.Now()
	raw, err := s.transport.Post(ctx, s.cfg.SofortServerURL, headers, body)
	metrics.ObserveGateway(operation, time.Since(start).Seconds())
	if err != nil {
		s.logger.Warn("gateway call failed",
			zap.String("operation", operation),
			zap.Error(err))
		return nil
	}
	return raw
}

func validateMethod(payment *domain.Payment) error {
	if payment.MethodCode == "" {
		return &sofort.ValidationError{Reason: "payment has no payment method"}
	}
	if payment.MethodCode != domain.MethodSofort {
		return &sofort.ValidationError{Reason: "payment method is not sofort"}
	}
	return nil
}

func orderNumber() string {
	return "R" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

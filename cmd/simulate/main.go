package main

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sofortpay/internal/config"
	"sofortpay/internal/database"
	"sofortpay/internal/repo"
	"sofortpay/internal/service"
	"sofortpay/internal/sofort"
)

// fakeGateway stands in for the real gateway over the Transport boundary.
// Initiation documents open an in-memory transaction with a random terminal
// status; status queries report it back. A slice of calls fails outright to
// exercise the unauthorized/empty-response path.
type fakeGateway struct {
	mu       sync.Mutex
	statuses map[string]string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: make(map[string]string)}
}

var simStatuses = []string{sofort.StatusLoss, sofort.StatusPending, sofort.StatusRefunded, sofort.StatusReceived}

func (g *fakeGateway) Post(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
	var req struct {
		XMLName     xml.Name `xml:"transaction_request"`
		Transaction string   `xml:"transaction"`
	}
	isStatusQuery := xml.Unmarshal(body, &req) == nil

	g.mu.Lock()
	defer g.mu.Unlock()

	if isStatusQuery {
		status, ok := g.statuses[req.Transaction]
		if !ok {
			return []byte(`<transactions />`), nil
		}
		return []byte(fmt.Sprintf(
			`<transactions><transaction_details><time>%s</time><status>%s</status><status_reason>simulated</status_reason><amount>49.90</amount></transaction_details></transactions>`,
			time.Now().Format(time.RFC3339), status)), nil
	}

	chance := rand.IntN(100)
	switch {
	case chance < 10:
		// Unauthorized: gateway returns nothing usable.
		return nil, nil
	case chance < 20:
		return []byte(`<errors><error><field>amount</field><message>Invalid amount.</message></error></errors>`), nil
	default:
		txn := "SIM-" + uuid.NewString()[:8]
		g.statuses[txn] = simStatuses[rand.IntN(len(simStatuses))]
		return []byte(fmt.Sprintf(
			`<new_transaction><transaction>%s</transaction><payment_url>https://gateway.example/pay/%s</payment_url></new_transaction>`,
			txn, txn)), nil
	}
}

func main() {
	ctx := context.Background()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db := database.NewPostgres()
	defer db.Close()
	if _, err := db.ExecContext(ctx, database.Schema); err != nil {
		log.Fatalf("schema: %v", err)
	}

	orderRepo := repo.NewOrderRepo(db)
	paymentRepo := repo.NewPaymentRepo(db)
	lifecycle := service.NewLifecycle(paymentRepo)
	gateway := newFakeGateway()
	svc := service.NewPaymentService(db, orderRepo, paymentRepo, lifecycle, gateway, cfg, logger.Named("service"))

	fmt.Println("--- SIMULATING 20 PAYMENT SESSIONS ---")
	for i := 0; i < 20; i++ {
		order, err := svc.CreateOrder(ctx, float64(rand.IntN(10000))/100)
		if err != nil {
			log.Printf("create failed: %v", err)
			continue
		}

		res, err := svc.Initiate(ctx, order.ID, "")
		if err != nil {
			fmt.Printf("[%d] %s initiate error: %v\n", i+1, order.Number, err)
			continue
		}
		if !res.OK() {
			fmt.Printf("[%d] %s rejected: %s -> %s\n", i+1, order.Number, res.ErrorMessage, res.RedirectURL)
			continue
		}
		fmt.Printf("[%d] %s redirect %s\n", i+1, order.Number, res.RedirectURL)

		// The gateway would POST this to /sofort/status; feed it straight in.
		n := sofort.Notification{Transaction: res.ExternalTransaction}
		if err := svc.Reconcile(ctx, n); err != nil {
			fmt.Printf("    reconcile error: %v\n", err)
			continue
		}

		payment, _ := paymentRepo.FindByExternalTransaction(ctx, res.ExternalTransaction)
		if payment != nil {
			fmt.Printf("    -> state %s, log: %q\n", payment.State, payment.AuditLog)
		}
	}
}

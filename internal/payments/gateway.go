package payments

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ChargeRequest is what the gateway needs to attempt a charge.
type ChargeRequest struct {
	Reference string
	Amount    float64
	Method    PaymentMethod
}

// ChargeResult is the gateway's verdict. A declined charge is a normal
// result, not an error; errors are reserved for the gateway being
// unreachable or misbehaving.
type ChargeResult struct {
	Succeeded            bool
	GatewayTransactionID string
	ResponseCode         string
	ResponseMessage      string
	FailureReason        string
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// simulatedGateway approves a configurable fraction of charges. It stands in
// for a real payment provider integration.
type simulatedGateway struct {
	successRate float64
	mu          sync.Mutex
	rng         *rand.Rand
}

func NewSimulatedGateway(successRate float64) Gateway {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	return &simulatedGateway{
		successRate: successRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *simulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	g.mu.Unlock()

	if roll < g.successRate {
		return &ChargeResult{
			Succeeded:            true,
			GatewayTransactionID: generateGatewayTransactionID(),
			ResponseCode:         "SUCCESS",
			ResponseMessage:      "Payment processed successfully",
		}, nil
	}
	return &ChargeResult{
		Succeeded:       false,
		ResponseCode:    "DECLINED",
		ResponseMessage: "Payment processing failed",
		FailureReason:   "Payment declined by gateway",
	}, nil
}

func generateGatewayTransactionID() string {
	return fmt.Sprintf("GTW%d%s", time.Now().UnixMilli(),
		strings.ToUpper(uuid.New().String()[:6]))
}

// GenerateTransactionReference builds the merchant-side reference stamped on
// every transaction.
func GenerateTransactionReference() string {
	return fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(),
		strings.ToUpper(uuid.New().String()[:8]))
}

// Package payment simulates payment processing for song purchases. Two
// gateway variants exist, split by a fixed price threshold; no network call
// is ever made.
package payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Threshold splits purchases between gateways. Amounts at or above it route
// to the premium gateway; the boundary itself is premium.
var Threshold = decimal.RequireFromString("10.00")

// StatusCompleted is the status carried by every simulated transaction.
const StatusCompleted = "completed"

var (
	// ErrBasicAmountTooHigh is returned when the basic gateway is handed an
	// amount it cannot process. The selector never does this; the check
	// keeps the variant safe to call directly.
	ErrBasicAmountTooHigh = errors.New("basic gateway can only process amounts under 10.00")
	// ErrPremiumAmountTooLow is the symmetric guard on the premium gateway.
	ErrPremiumAmountTooLow = errors.New("premium gateway requires amounts of 10.00 or more")
)

// Transaction is the ephemeral result of a processed payment. It is returned
// to the caller and never persisted.
type Transaction struct {
	Success         bool    `json:"success"`
	Gateway         string  `json:"gateway"`
	Amount          float64 `json:"amount"`
	TransactionID   string  `json:"transaction_id"`
	Status          string  `json:"status"`
	SongIDs         []int64 `json:"song_ids"`
	Message         string  `json:"message"`
	PremiumFeatures bool    `json:"premium_features,omitempty"`
}

// Gateway processes a payment for a set of songs.
type Gateway interface {
	Name() string
	ProcessPayment(amount decimal.Decimal, songIDs []int64) (*Transaction, error)
}

// SelectGateway picks the gateway variant for a total price.
func SelectGateway(total decimal.Decimal) Gateway {
	if total.GreaterThanOrEqual(Threshold) {
		return PremiumGateway{}
	}
	return BasicGateway{}
}

// BasicGateway handles small transactions, under the threshold.
type BasicGateway struct{}

// Name returns the gateway variant name.
func (BasicGateway) Name() string { return "basic" }

// ProcessPayment simulates a charge through the basic gateway.
func (g BasicGateway) ProcessPayment(amount decimal.Decimal, songIDs []int64) (*Transaction, error) {
	if amount.GreaterThanOrEqual(Threshold) {
		return nil, ErrBasicAmountTooHigh
	}
	return &Transaction{
		Success:       true,
		Gateway:       g.Name(),
		Amount:        amount.InexactFloat64(),
		TransactionID: newTransactionID("BASIC", amount),
		Status:        StatusCompleted,
		SongIDs:       songIDs,
		Message:       "payment processed successfully via basic gateway",
	}, nil
}

// PremiumGateway handles transactions at or above the threshold and unlocks
// premium features on the result.
type PremiumGateway struct{}

// Name returns the gateway variant name.
func (PremiumGateway) Name() string { return "premium" }

// ProcessPayment simulates a charge through the premium gateway.
func (g PremiumGateway) ProcessPayment(amount decimal.Decimal, songIDs []int64) (*Transaction, error) {
	if amount.LessThan(Threshold) {
		return nil, ErrPremiumAmountTooLow
	}
	return &Transaction{
		Success:         true,
		Gateway:         g.Name(),
		Amount:          amount.InexactFloat64(),
		TransactionID:   newTransactionID("PREM", amount),
		Status:          StatusCompleted,
		SongIDs:         songIDs,
		Message:         "payment processed successfully via premium gateway",
		PremiumFeatures: true,
	}, nil
}

// newTransactionID builds an identifier unique per call, within and across
// process instances.
func newTransactionID(prefix string, amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	return fmt.Sprintf("%s-%s-%d", prefix, uuid.NewString(), cents)
}

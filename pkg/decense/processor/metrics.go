package processor

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"

	"github.com/code-payments/decense/pkg/metrics"
)

const (
	sellerInitializedEventName = "DecenseSellerInitialized"
	exchangeEventName          = "DecenseExchange"
	tokenMovementEventName     = "DecenseTokenMovement"
)

func recordSellerInitializedEvent(ctx context.Context, seller, mint ed25519.PublicKey, valuation, supply, price uint64) {
	metrics.RecordEvent(ctx, sellerInitializedEventName, map[string]interface{}{
		"seller":    base58.Encode(seller),
		"mint":      base58.Encode(mint),
		"valuation": valuation,
		"supply":    supply,
		"price":     price,
	})
}

func recordExchangeEvent(ctx context.Context, seller, buyer ed25519.PublicKey, askedPrice, quantity, oldPrice, newPrice uint64) {
	metrics.RecordEvent(ctx, exchangeEventName, map[string]interface{}{
		"seller":      base58.Encode(seller),
		"buyer":       base58.Encode(buyer),
		"asked_price": askedPrice,
		"quantity":    quantity,
		"old_price":   oldPrice,
		"new_price":   newPrice,
	})
}

func recordTokenMovementEvent(ctx context.Context, seller, trader ed25519.PublicKey, action string, amount uint64) {
	metrics.RecordEvent(ctx, tokenMovementEventName, map[string]interface{}{
		"seller": base58.Encode(seller),
		"trader": base58.Encode(trader),
		"action": action,
		"amount": amount,
	})
}

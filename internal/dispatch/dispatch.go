// Package dispatch delivers resource-shift orders to the regional office.
package dispatch

import (
	"context"
	"log"

	"ask_saturation/internal/models"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, order models.ShiftOrder) error
}

// LogDispatcher only logs orders. Used when no broker is configured.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ctx context.Context, order models.ShiftOrder) error {
	log.Printf("Resource shift %s: %s -> %s (no broker configured)", order.ID, order.From, order.To)
	return nil
}

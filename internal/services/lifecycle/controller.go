// Package lifecycle enforces ownership and status transitions for tasks,
// proposals and reviews.
package lifecycle

import (
	"context"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/realtime"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/repository"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/wallet"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/validator"
)

type Controller struct {
	store    *repository.Store
	wallet   *wallet.WalletService
	notifier realtime.Notifier
	validate *validator.Validator
}

func NewController(store *repository.Store, w *wallet.WalletService, n realtime.Notifier, v *validator.Validator) *Controller {
	if n == nil {
		n = realtime.NopNotifier{}
	}
	return &Controller{store: store, wallet: w, notifier: n, validate: v}
}

type notice struct {
	to uuid.UUID
	ev realtime.Event
}

// outbox collects events inside a transaction; they go out only after commit.
type outbox []notice

func (o *outbox) add(to uuid.UUID, ev realtime.Event) {
	*o = append(*o, notice{to: to, ev: ev})
}

func (c *Controller) flush(ctx context.Context, o outbox) {
	for _, n := range o {
		c.notifier.Notify(ctx, n.to, n.ev)
	}
}

func ptr[T any](v T) *T { return &v }

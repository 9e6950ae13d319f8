package notification

import (
	"context"

	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Dispatcher sends the post-settlement emails. Every send is best-effort:
// a failed email never fails or retries the other one, and never reaches
// the caller as an error.
type Dispatcher struct {
	mailer     Mailer
	ownerEmail string
	// The email provider rate-limits senders; sends are paced rather than
	// fired back to back.
	limiter *rate.Limiter
}

func NewDispatcher(mailer Mailer, ownerEmail string) *Dispatcher {
	return &Dispatcher{
		mailer:     mailer,
		ownerEmail: ownerEmail,
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
	}
}

// OrderConfirmed sends the customer confirmation and the owner notification
// for a settled order, in that sequence.
func (d *Dispatcher) OrderConfirmed(ctx context.Context, data OrderEmailData) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", data.OrderID),
		zap.String("reference", data.Reference),
	)

	d.send(ctx, log, "customer", data.CustomerEmail,
		"Order Confirmed - "+data.OrderID,
		func() (string, error) { return renderCustomerEmail(data) },
	)

	if d.ownerEmail == "" {
		log.Warn("owner email not configured, skipping owner notification")
		return
	}

	d.send(ctx, log, "owner", d.ownerEmail,
		"New Order Received - "+data.OrderID,
		func() (string, error) { return renderOwnerEmail(data) },
	)
}

func (d *Dispatcher) send(ctx context.Context, log *zap.Logger, kind, to, subject string, render func() (string, error)) {
	if err := d.limiter.Wait(ctx); err != nil {
		log.Warn("notification send cancelled", zap.String("kind", kind), zap.Error(err))
		metrics.RecordNotificationSent(kind, "cancelled")
		return
	}

	html, err := render()
	if err != nil {
		log.Error("failed to render notification email",
			zap.String("kind", kind),
			zap.Error(err),
		)
		metrics.RecordNotificationSent(kind, "error")
		return
	}

	if err := d.mailer.Send(ctx, to, subject, html); err != nil {
		log.Error("failed to send notification email",
			zap.String("kind", kind),
			zap.Error(err),
		)
		metrics.RecordNotificationSent(kind, "error")
		return
	}

	metrics.RecordNotificationSent(kind, "ok")
}

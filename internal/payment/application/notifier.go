package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/paybot-id/paybot/internal/payment/domain"
	"github.com/paybot-id/paybot/pkg/scheduler"
)

var (
	ErrBadSignature          = errors.New("callback signature does not verify")
	ErrUnresolvableReference = errors.New("reference id does not decode to a recipient")
)

// Notifier turns an authenticated payment callback into outbound WhatsApp
// messages. A SUCCESS callback triggers a three-stage sequence: an
// immediate confirmation, a processing update after ProcessingDelay, and a
// completion message CompletedDelay after that. The delayed stages are
// fire-and-forget; the webhook response never waits for them.
type Notifier struct {
	log             *slog.Logger
	signer          domain.Signer
	sender          MessageSender
	dedup           DedupStore
	sched           scheduler.Scheduler
	processingDelay time.Duration
	completedDelay  time.Duration
}

func NewNotifier(log *slog.Logger, signer domain.Signer, sender MessageSender, dedup DedupStore, sched scheduler.Scheduler, processingDelay, completedDelay time.Duration) *Notifier {
	return &Notifier{
		log:             log,
		signer:          signer,
		sender:          sender,
		dedup:           dedup,
		sched:           sched,
		processingDelay: processingDelay,
		completedDelay:  completedDelay,
	}
}

// Process runs the callback through verification, correlation and dispatch.
// It rejects before any side effect on a bad signature or an undecodable
// reference; everything after the dedup gate is at-most-once per
// (reference id, status) within the retention window.
func (n *Notifier) Process(ctx context.Context, cb domain.Callback) error {
	if !n.signer.VerifyCallback(cb) {
		n.log.Error("callback rejected", "reference_id", cb.ReferenceID, "reason", "bad signature")
		return ErrBadSignature
	}

	phone, ok := domain.DecodeReference(cb.ReferenceID)
	if !ok {
		n.log.Error("callback rejected", "reference_id", cb.ReferenceID, "reason", "unresolvable reference")
		return ErrUnresolvableReference
	}

	switch domain.Status(cb.Status) {
	case domain.StatusSuccess, domain.StatusFailed, domain.StatusPending:
	default:
		n.log.Warn("unknown callback status ignored", "reference_id", cb.ReferenceID, "status", cb.Status)
		return nil
	}

	key := n.dedup.Key(cb.ReferenceID, cb.Status)
	seen, err := n.dedup.Seen(ctx, key)
	if err != nil {
		// Fail open: losing dedup on a store outage beats dropping a
		// paid-notification entirely.
		n.log.Warn("dedup check failed, processing anyway", "key", key, "err", err)
	} else if seen {
		n.log.Info("duplicate callback skipped", "key", key)
		return nil
	}

	switch domain.Status(cb.Status) {
	case domain.StatusSuccess:
		n.dispatchSuccess(ctx, phone, cb)
		return nil
	case domain.StatusFailed:
		return n.send(ctx, phone, failedMessage(cb), "payment failed")
	default:
		return n.send(ctx, phone, pendingMessage(cb), "payment pending")
	}
}

func (n *Notifier) dispatchSuccess(ctx context.Context, phone string, cb domain.Callback) {
	if err := n.send(ctx, phone, confirmedMessage(cb), "payment confirmed"); err != nil {
		n.log.Error("confirmation send failed, sequence continues", "reference_id", cb.ReferenceID, "err", err)
	}

	// The delayed stages outlive the webhook request, so detach its
	// cancellation. Each stage is independent of the others' outcomes.
	bg := context.WithoutCancel(ctx)
	n.sched.After(n.processingDelay, func() {
		_ = n.send(bg, phone, processingMessage, "order processing")
	})
	n.sched.After(n.processingDelay+n.completedDelay, func() {
		_ = n.send(bg, phone, completedMessage, "order completed")
	})
}

func (n *Notifier) send(ctx context.Context, phone, message, stage string) error {
	if err := n.sender.SendText(ctx, phone, message); err != nil {
		n.log.Error("notification send failed", "stage", stage, "target", phone, "err", err)
		return err
	}
	n.log.Info("notification sent", "stage", stage, "target", phone)
	return nil
}

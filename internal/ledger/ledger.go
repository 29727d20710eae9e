package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/authz"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/payment"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"
)

// PaymentsStore is the slice of persistence the ledger needs. Small on
// purpose so tests can use the memory implementation.
type PaymentsStore interface {
	Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]payment.Payment, error)
	GetByID(ctx context.Context, id int64) (payment.Payment, error)
	Update(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (int64, error)
	Deactivate(ctx context.Context, id int64, at time.Time) error
}

type AuditStore interface {
	Create(ctx context.Context, paymentID, eliminadoPor int64, at time.Time) (payment.DeletedPayment, error)
}

// Ledger owns the payment lifecycle rules: soft delete only, audit row
// before flag flip, role-scoped listing.
type Ledger struct {
	payments PaymentsStore
	audits   AuditStore
	log      *slog.Logger
}

func New(payments PaymentsStore, audits AuditStore, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}

	return &Ledger{
		payments: payments,
		audits:   audits,
		log:      log,
	}
}

func (l *Ledger) Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
	return l.payments.Create(ctx, req)
}

// List scopes results by the actor's role: a usuario only ever sees its
// own active payments, any requested filter ignored; other roles see
// active payments for requestedUserID, or their own when absent.
func (l *Ledger) List(ctx context.Context, actor authz.Actor, requestedUserID *int64) ([]payment.Payment, error) {
	if actor.Rol == user.RoleUsuario {
		return l.payments.ListActiveByUser(ctx, actor.ID)
	}

	target := actor.ID

	if requestedUserID != nil {
		target = *requestedUserID
	}

	return l.payments.ListActiveByUser(ctx, target)
}

// Update applies a partial field update. Outcomes: Updated, NotModified
// (row matched, nothing changed), or payment.ErrNotFound.
func (l *Ledger) Update(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (payment.UpdateOutcome, error) {
	_, err := l.payments.GetByID(ctx, id)

	if err != nil {
		return payment.NotModified, err
	}

	affected, err := l.payments.Update(ctx, id, req)

	if err != nil {
		return payment.NotModified, err
	}

	if affected == 0 {
		return payment.NotModified, nil
	}

	return payment.Updated, nil
}

// Deactivate soft-deletes a payment: the audit row is written first and
// the activo flip is skipped entirely when that write fails. Re-runs on
// an already inactive payment are not rejected and append another audit
// row; last writer wins on the flag.
func (l *Ledger) Deactivate(ctx context.Context, id int64, actorID int64) error {
	_, err := l.payments.GetByID(ctx, id)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	audit, err := l.audits.Create(ctx, id, actorID, now)

	if err != nil {
		l.log.ErrorContext(ctx, "deactivation audit write failed", "payment_id", id, "actor_id", actorID, "err", err)

		return fmt.Errorf("%w: %v", payment.ErrDeactivationFailed, err)
	}

	err = l.payments.Deactivate(ctx, id, now)

	if err != nil {
		return err
	}

	l.log.InfoContext(ctx, "payment deactivated", "payment_id", id, "actor_id", actorID, "audit_id", audit.ID)

	return nil
}

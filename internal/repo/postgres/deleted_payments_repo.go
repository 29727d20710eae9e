package postgres

import (
	"context"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/payment"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeletedPaymentsRepo writes the deactivation audit trail. One row per
// deactivation event, repeated deactivations included.
type DeletedPaymentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewDeletedPaymentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *DeletedPaymentsRepo {
	return &DeletedPaymentsRepo{pool: pool, prom: prom}
}

func (r *DeletedPaymentsRepo) Create(ctx context.Context, paymentID, eliminadoPor int64, at time.Time) (payment.DeletedPayment, error) {
	var d payment.DeletedPayment

	fn := func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO deleted_payments (payment_id, eliminado_por, fecha_eliminado)
			 VALUES ($1,$2,$3)
			 RETURNING id, payment_id, eliminado_por, fecha_eliminado`,
			paymentID, eliminadoPor, at,
		).Scan(&d.ID, &d.PaymentID, &d.EliminadoPor, &d.FechaEliminado)
	}

	var err error
	if r.prom != nil {
		err = r.prom.ObserveDB("deleted_payments.create", fn)
	} else {
		err = fn()
	}

	if err != nil {
		return payment.DeletedPayment{}, err
	}

	return d, nil
}

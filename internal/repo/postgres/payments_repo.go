package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/payment"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PaymentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPaymentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PaymentsRepo {
	return &PaymentsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PaymentsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// monto crosses the wire as text on both sides so the NUMERIC value is
// never routed through a float.
const paymentColumns = `id, fecha_pago, fecha_carga, monto::text, forma_pago,
	COALESCE(descripcion, ''), ubicacion, activo, fecha_eliminado, user_id`

func scanPayment(row pgx.Row) (payment.Payment, error) {
	var p payment.Payment
	var monto string

	err := row.Scan(
		&p.ID,
		&p.FechaPago,
		&p.FechaCarga,
		&monto,
		&p.FormaPago,
		&p.Descripcion,
		&p.Ubicacion,
		&p.Activo,
		&p.FechaEliminado,
		&p.UserID,
	)

	if err != nil {
		return payment.Payment{}, err
	}

	p.Monto, err = decimal.NewFromString(monto)

	if err != nil {
		return payment.Payment{}, err
	}

	return p, nil
}

func (r *PaymentsRepo) Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
	row := payment.NewFromCreateRequest(req)

	var created payment.Payment
	err := r.observe("payments.create", func() error {
		var e error
		created, e = scanPayment(r.pool.QueryRow(ctx,
			`INSERT INTO payments (fecha_pago, fecha_carga, monto, forma_pago, descripcion, ubicacion, activo, user_id)
			 VALUES ($1,$2,$3::numeric,$4,$5,$6,$7,$8)
			 RETURNING `+paymentColumns,
			row.FechaPago, row.FechaCarga, row.Monto.StringFixed(2), row.FormaPago,
			nullIfEmpty(row.Descripcion), row.Ubicacion, row.Activo, row.UserID,
		))
		return e
	})

	if err != nil {
		return payment.Payment{}, err
	}

	return created, nil
}

// ListActiveByUser returns the active payments owned by userID.
// Deactivated rows never show up here.
func (r *PaymentsRepo) ListActiveByUser(ctx context.Context, userID int64) ([]payment.Payment, error) {
	var out []payment.Payment

	err := r.observe("payments.list_active_by_user", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+paymentColumns+`
			 FROM payments
			 WHERE user_id = $1 AND activo
			 ORDER BY fecha_pago ASC, id ASC`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]payment.Payment, 0)

		for rows.Next() {
			p, err := scanPayment(rows)

			if err != nil {
				return err
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *PaymentsRepo) GetByID(ctx context.Context, id int64) (payment.Payment, error) {
	var p payment.Payment

	err := r.observe("payments.get_by_id", func() error {
		var e error
		p, e = scanPayment(r.pool.QueryRow(ctx,
			`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.Payment{}, payment.ErrNotFound
		}

		return payment.Payment{}, err
	}

	return p, nil
}

// Update applies a partial field update and reports how many rows
// actually changed. The IS DISTINCT FROM guard makes an update with
// identical values affect zero rows, which the ledger surfaces as the
// not-modified outcome.
func (r *PaymentsRepo) Update(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (int64, error) {
	var monto *string

	if req.Monto != nil {
		s := req.Monto.StringFixed(2)
		monto = &s
	}

	var affected int64

	err := r.observe("payments.update", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE payments
			 SET fecha_pago  = COALESCE($2, fecha_pago),
			     monto       = COALESCE($3::numeric, monto),
			     forma_pago  = COALESCE($4, forma_pago),
			     descripcion = COALESCE($5, descripcion),
			     ubicacion   = COALESCE($6, ubicacion)
			 WHERE id = $1
			   AND ROW(fecha_pago, monto, forma_pago, descripcion, ubicacion)
			       IS DISTINCT FROM
			       ROW(COALESCE($2, fecha_pago),
			           COALESCE($3::numeric, monto),
			           COALESCE($4, forma_pago),
			           COALESCE($5, descripcion),
			           COALESCE($6, ubicacion))`,
			id, req.FechaPago, monto, req.FormaPago, req.Descripcion, req.Ubicacion,
		)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, err
	}

	return affected, nil
}

// Deactivate flips activo to false and stamps fecha_eliminado. Callers
// must have written the audit row first.
func (r *PaymentsRepo) Deactivate(ctx context.Context, id int64, at time.Time) error {
	return r.observe("payments.deactivate", func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE payments SET activo = FALSE, fecha_eliminado = $2 WHERE id = $1`,
			id, at,
		)
		return err
	})
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

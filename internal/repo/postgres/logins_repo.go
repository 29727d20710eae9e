package postgres

import (
	"context"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginsRepo appends login audit rows. There is no update or delete
// path for these on purpose.
type LoginsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewLoginsRepo(pool *pgxpool.Pool, prom *observability.Prom) *LoginsRepo {
	return &LoginsRepo{pool: pool, prom: prom}
}

func (r *LoginsRepo) Create(ctx context.Context, userID int64) error {
	fn := func() error {
		_, err := r.pool.Exec(ctx, `INSERT INTO logins (user_id) VALUES ($1)`, userID)
		return err
	}

	if r.prom != nil {
		return r.prom.ObserveDB("logins.create", fn)
	}
	return fn()
}

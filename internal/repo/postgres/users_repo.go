package postgres

import (
	"context"
	"errors"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) GetByCorreo(ctx context.Context, correo string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_correo", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, nombre, correo, contrasena, rol, created_at, updated_at
			 FROM users
			 WHERE correo = $1`,
			correo,
		).Scan(
			&u.ID,
			&u.Nombre,
			&u.Correo,
			&u.PasswordHash,
			&u.Rol,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, nombre, correo, passwordHash, rol string) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (nombre, correo, contrasena, rol)
			 VALUES ($1,$2,$3,$4)
			 RETURNING id, nombre, correo, contrasena, rol, created_at, updated_at`,
			nombre, correo, passwordHash, rol,
		).Scan(
			&u.ID,
			&u.Nombre,
			&u.Correo,
			&u.PasswordHash,
			&u.Rol,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrCorreoTaken
		}

		return user.User{}, err
	}

	return u, nil
}

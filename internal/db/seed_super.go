package db

import (
	"context"
	"errors"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/config"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/security"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSuperUser creates the configured super user when it does not
// exist yet. A no-op if the seed settings are empty.
func EnsureSuperUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SuperCorreo == "" || cfg.SuperPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE correo = $1`, cfg.SuperCorreo).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.SuperPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (nombre, correo, contrasena, rol)
		VALUES ($1,$2,$3,$4)
		`,
		cfg.SuperNombre, cfg.SuperCorreo, hash, user.RoleSuper,
	)

	return err
}

// Package pg implementa core.ProfileRepository sobre Postgres (pgx).
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/gatejohn/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct{ pool *pgxpool.Pool }

type Config struct {
	MaxOpenConns    int
	ConnMaxLifetime string
}

func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool interno para usos avanzados (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Create(ctx context.Context, p *core.Profile) error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return errors.New("invalid profile id")
	}
	const q = `
INSERT INTO profiles (id, email, name, phone)
VALUES ($1, LOWER($2), $3, NULLIF($4,''))
RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q, p.ID, p.Email, p.Name, p.Phone).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// unique_violation sobre id o email
		return errors.New("profile already exists")
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*core.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, core.ErrNotFound
	}
	const q = `
SELECT id, email, name, COALESCE(phone,''), created_at, updated_at
FROM profiles WHERE id = $1`
	var p core.Profile
	err := s.pool.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Email, &p.Name, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update aplica un parche parcial. Columnas con puntero nil quedan igual.
func (s *Store) Update(ctx context.Context, id string, upd core.ProfileUpdate) (*core.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, core.ErrNotFound
	}
	const q = `
UPDATE profiles SET
  name       = COALESCE($2, name),
  phone      = COALESCE($3, phone),
  updated_at = now()
WHERE id = $1
RETURNING id, email, name, COALESCE(phone,''), created_at, updated_at`
	var p core.Profile
	err := s.pool.QueryRow(ctx, q, id, upd.Name, upd.Phone).
		Scan(&p.ID, &p.Email, &p.Name, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return core.ErrNotFound
	}
	const q = `DELETE FROM profiles WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

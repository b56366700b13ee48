package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// ErrNotSet is returned when a key has never been written.
var ErrNotSet = errors.New("setting not set")

type Repo interface {
	GetFloat(ctx context.Context, name string) (float64, error)
	SetFloat(ctx context.Context, name string, value float64) error
}

// RepoImpl persists settings as name/value rows.
type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r RepoImpl) GetFloat(ctx context.Context, name string) (float64, error) {
	query := "SELECT value FROM settings WHERE name = ?"

	row := r.db.QueryRowContext(ctx, query, name)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotSet
		}
		err := fmt.Errorf("could not query setting %s: %w", name, err)
		log.Error(err)
		return 0, err
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		err := fmt.Errorf("could not parse setting %s=%q: %w", name, raw, err)
		log.Error(err)
		return 0, err
	}

	return value, nil
}

func (r RepoImpl) SetFloat(ctx context.Context, name string, value float64) error {
	query := `INSERT INTO settings (name, value) VALUES (?, ?)
			  ON CONFLICT (name) DO UPDATE SET value = excluded.value`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, name, strconv.FormatFloat(value, 'f', -1, 64)); err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	return nil
}

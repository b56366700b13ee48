package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateID is returned by Insert when a row with the same id already exists.
var ErrDuplicateID = errors.New("expense id already exists")

type Repo interface {
	// Insert appends a new row. Fails with ErrDuplicateID if the id is taken.
	Insert(ctx context.Context, e Expense) error
	// Update replaces the row matching e.ID. A no-op (no error) when the id
	// does not exist; callers cannot distinguish "nothing to do" from a
	// vanished id.
	Update(ctx context.Context, e Expense) error
	// Delete removes the row with the given id. No-op when absent.
	Delete(ctx context.Context, id string) error
	// ListByRange returns rows whose occurredAt millis fall within
	// [start, end], most recent first.
	ListByRange(ctx context.Context, start, end int64) ([]Expense, error)
	// SumAmount returns the sum of amount over the range, 0 when empty.
	SumAmount(ctx context.Context, start, end int64) (float64, error)
	// SumByCategory returns one (category, total) pair per distinct category
	// in the range, largest total first.
	SumByCategory(ctx context.Context, start, end int64) ([]CategoryTotal, error)
}

// RepoImpl persists expenses in the embedded SQLite store. Timestamps are
// written in the zone passed to the constructor and read back in the same
// zone.
type RepoImpl struct {
	db  *sql.DB
	loc *time.Location
}

func NewRepo(db *sql.DB, loc *time.Location) *RepoImpl {
	return &RepoImpl{db: db, loc: loc}
}

func (r RepoImpl) Insert(ctx context.Context, e Expense) error {
	query := `INSERT INTO expenses (id, title, amount, category, occurredAtEpochMs)
				VALUES (?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		e.ID,
		e.Title,
		e.Amount,
		e.Category,
		e.OccurredAt.In(r.loc).UnixMilli(),
	)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) &&
			(se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	return nil
}

func (r RepoImpl) Update(ctx context.Context, e Expense) error {
	query := `UPDATE expenses SET
				  title = ?,
				  amount = ?,
				  category = ?,
				  occurredAtEpochMs = ?
			  WHERE id = ?`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		e.Title,
		e.Amount,
		e.Category,
		e.OccurredAt.In(r.loc).UnixMilli(),
		e.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 0 {
		// Silently tolerated: the original treats an update of a missing id
		// as nothing-to-do rather than an error.
		log.Debugf("expense %s not updated, it does not exist", e.ID)
	}

	return nil
}

func (r RepoImpl) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM expenses WHERE id = ?"

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 0 {
		log.Debugf("expense %s not deleted, it does not exist", id)
	}

	return nil
}

func (r RepoImpl) ListByRange(ctx context.Context, start, end int64) ([]Expense, error) {
	// rowid breaks occurredAt ties by insertion order, keeping results stable.
	query := `SELECT id, title, amount, category, occurredAtEpochMs
			  FROM expenses
			  WHERE occurredAtEpochMs BETWEEN ? AND ?
			  ORDER BY occurredAtEpochMs DESC, rowid ASC`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		var occurredAtMs int64
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Amount,
			&e.Category,
			&occurredAtMs,
		); err != nil {
			err := fmt.Errorf("could not scan expense: %w", err)
			log.Error(err)
			return nil, err
		}
		e.OccurredAt = time.UnixMilli(occurredAtMs).In(r.loc)
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return expenses, nil
}

func (r RepoImpl) SumAmount(ctx context.Context, start, end int64) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM expenses
			  WHERE occurredAtEpochMs BETWEEN ? AND ?`

	row := r.db.QueryRowContext(ctx, query, start, end)
	var total float64
	if err := row.Scan(&total); err != nil {
		err := fmt.Errorf("could not sum expenses: %w", err)
		log.Error(err)
		return 0, err
	}

	return total, nil
}

func (r RepoImpl) SumByCategory(ctx context.Context, start, end int64) ([]CategoryTotal, error) {
	query := `SELECT category, SUM(amount) AS total
			  FROM expenses
			  WHERE occurredAtEpochMs BETWEEN ? AND ?
			  GROUP BY category
			  ORDER BY total DESC, category ASC`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		err := fmt.Errorf("could not query category totals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			err := fmt.Errorf("could not scan category total: %w", err)
			log.Error(err)
			return nil, err
		}
		totals = append(totals, ct)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return totals, nil
}

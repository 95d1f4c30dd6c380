package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/backoffice/internal/collection"
)

const (
	opTimeout = 5 * time.Second

	pgUniqueViolation = "23505"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// sqlTable — общие операции над таблицей с BIGSERIAL-идентификатором.
type sqlTable struct {
	db       *sql.DB
	name     string
	notFound error
}

func (t sqlTable) delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := t.db.ExecContext(ctx, `DELETE FROM `+t.name+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", t.name, err)
	}
	return t.expectAffected(res, id)
}

func (t sqlTable) expectAffected(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", t.name, err)
	}
	if affected == 0 {
		return fmt.Errorf("id %d: %w", id, t.notFound)
	}
	return nil
}

func (t sqlTable) count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var n int
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return n, nil
}

// resetIDSequence выставляет последовательность id на MAX(id)+1, для пустой таблицы на 1.
func (t sqlTable) resetIDSequence(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := t.db.ExecContext(ctx, `
		SELECT setval(pg_get_serial_sequence('`+t.name+`', 'id'), COALESCE(MAX(id), 0) + 1, false)
		FROM `+t.name); err != nil {
		return fmt.Errorf("reset %s id sequence: %w", t.name, err)
	}
	return nil
}

// queryOne выполняет запрос на одну строку; sql.ErrNoRows превращается в notFound.
func queryOne[T any](ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), notFound error, query string, args ...any) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	entity, err := scan(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, notFound
		}
		return zero, err
	}
	return entity, nil
}

// queryList читает все строки запроса в collection.List в порядке выдачи.
func queryList[T any](ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), equal collection.EqualFunc[T], query string, args ...any) (*collection.List[T], error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := collection.New[T](equal)
	for rows.Next() {
		entity, err := scan(rows)
		if err != nil {
			return nil, err
		}
		list.Add(entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/backoffice/internal/collection"
)

// table — общая in-memory реализация domain.Repository поверх collection.List.
// Идентификаторы выдаются последовательно, как в серийной колонке БД.
type table[T any, K comparable] struct {
	mu     sync.Mutex
	rows   *collection.List[T]
	nextID int64

	idOf  func(T) int64
	setID func(*T, int64)
	keyOf func(T) K

	notFound  error
	duplicate error // nil — ключ не обязан быть уникальным
}

func newTable[T any, K comparable](
	idOf func(T) int64,
	setID func(*T, int64),
	keyOf func(T) K,
	notFound, duplicate error,
) *table[T, K] {
	return &table[T, K]{
		rows:      collection.New[T](func(a, b T) bool { return idOf(a) == idOf(b) }),
		idOf:      idOf,
		setID:     setID,
		keyOf:     keyOf,
		notFound:  notFound,
		duplicate: duplicate,
	}
}

func (t *table[T, K]) FindAll(ctx context.Context) (*collection.List[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.rows.Clone(), nil
}

func (t *table[T, K]) FindByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	row, ok := t.rows.Find(func(row T) bool { return t.idOf(row) == id })
	if !ok {
		return zero, fmt.Errorf("id %d: %w", id, t.notFound)
	}
	return row, nil
}

func (t *table[T, K]) FindOne(ctx context.Context, key K) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	row, ok := t.rows.Find(func(row T) bool { return t.keyOf(row) == key })
	if !ok {
		return zero, fmt.Errorf("key %v: %w", key, t.notFound)
	}
	return row, nil
}

// Save вставляет запись при нулевом ID, иначе заменяет существующую.
func (t *table[T, K]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.idOf(entity)
	if t.duplicate != nil {
		key := t.keyOf(entity)
		if _, taken := t.rows.Find(func(row T) bool {
			return t.keyOf(row) == key && t.idOf(row) != id
		}); taken {
			return zero, fmt.Errorf("key %v: %w", key, t.duplicate)
		}
	}

	if id == 0 {
		t.nextID++
		t.setID(&entity, t.nextID)
		t.rows.Add(entity)
		return entity, nil
	}

	idx := t.rows.IndexOf(entity)
	if idx < 0 {
		return zero, fmt.Errorf("id %d: %w", id, t.notFound)
	}
	if _, ok := t.rows.Update(entity, idx); !ok {
		return zero, fmt.Errorf("id %d: %w", id, t.notFound)
	}
	return entity, nil
}

func (t *table[T, K]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var probe T
	t.setID(&probe, id)
	if !t.rows.Remove(probe) {
		return fmt.Errorf("id %d: %w", id, t.notFound)
	}
	return nil
}

func (t *table[T, K]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return t.rows.Len(), nil
}

func (t *table[T, K]) GetLast(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	row, ok := t.rows.Get(t.rows.Len() - 1)
	if !ok {
		return zero, fmt.Errorf("last row: %w", t.notFound)
	}
	return row, nil
}

// ResetIDSequence продолжает нумерацию с максимального существующего ID (или с нуля).
func (t *table[T, K]) ResetIDSequence(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var maxID int64
	for row := range t.rows.Values() {
		maxID = max(maxID, t.idOf(row))
	}
	t.nextID = maxID
	return nil
}

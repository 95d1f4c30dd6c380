package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const timelineColumns = `order_number, type, reason, occurred`

// timelineRepository хранит историю заказов в timeline_events.
// Строки не ссылаются на orders: история удалённого заказа остаётся читаемой.
type timelineRepository struct {
	db *sql.DB
}

// NewTimelineRepository создаёт PostgreSQL-реализацию TimelineRepository.
func NewTimelineRepository(store *Store) domain.TimelineRepository {
	return &timelineRepository{db: store.DB()}
}

func scanTimelineEvent(row rowScanner) (domain.TimelineEvent, error) {
	var event domain.TimelineEvent
	if err := row.Scan(&event.OrderNumber, &event.Type, &event.Reason, &event.Occurred); err != nil {
		return domain.TimelineEvent{}, err
	}
	event.Occurred = event.Occurred.UTC()
	return event, nil
}

func sameTimelineEvent(a, b domain.TimelineEvent) bool {
	return a.OrderNumber == b.OrderNumber && a.Type == b.Type && a.Occurred.Equal(b.Occurred)
}

func (r *timelineRepository) Append(ctx context.Context, event domain.TimelineEvent) error {
	if event.Occurred.IsZero() {
		event.Occurred = domain.SystemClock()
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO timeline_events (`+timelineColumns+`) VALUES ($1, $2, $3, $4)`,
		event.OrderNumber, event.Type, event.Reason, event.Occurred.UTC())
	if err != nil {
		return fmt.Errorf("append timeline event for order %d: %w", event.OrderNumber, err)
	}
	return nil
}

func (r *timelineRepository) List(ctx context.Context, orderNumber int64) ([]domain.TimelineEvent, error) {
	events, err := queryList(ctx, r.db, scanTimelineEvent, sameTimelineEvent,
		`SELECT `+timelineColumns+` FROM timeline_events WHERE order_number = $1 ORDER BY occurred, id`,
		orderNumber)
	if err != nil {
		return nil, fmt.Errorf("list timeline of order %d: %w", orderNumber, err)
	}
	return events.Snapshot(), nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)

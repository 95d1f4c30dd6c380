package memory

import (
	"context"
	"slices"

	"github.com/vladislavdragonenkov/backoffice/internal/collection"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// timelineRepositoryInMemory — общий журнал событий всех заказов в порядке записи.
type timelineRepositoryInMemory struct {
	journal *collection.List[domain.TimelineEvent]
}

// NewTimelineRepository возвращает in-memory журнал истории заказов.
func NewTimelineRepository() domain.TimelineRepository {
	return &timelineRepositoryInMemory{
		journal: collection.New[domain.TimelineEvent](func(a, b domain.TimelineEvent) bool {
			return a.OrderNumber == b.OrderNumber && a.Type == b.Type && a.Occurred.Equal(b.Occurred)
		}),
	}
}

func (r *timelineRepositoryInMemory) Append(ctx context.Context, event domain.TimelineEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.Occurred.IsZero() {
		event.Occurred = domain.SystemClock()
	}
	r.journal.Add(event)
	return nil
}

// List возвращает события заказа по времени; при равном времени сохраняется порядок записи.
func (r *timelineRepositoryInMemory) List(ctx context.Context, orderNumber int64) ([]domain.TimelineEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := make([]domain.TimelineEvent, 0)
	for event := range r.journal.Values() {
		if event.OrderNumber == orderNumber {
			events = append(events, event)
		}
	}
	slices.SortStableFunc(events, func(a, b domain.TimelineEvent) int {
		return a.Occurred.Compare(b.Occurred)
	})
	return events, nil
}

var _ domain.TimelineRepository = (*timelineRepositoryInMemory)(nil)

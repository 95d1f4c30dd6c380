package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

func TestTimelineRepository_PostgresAppendAndList(t *testing.T) {
	store := migratedStore(t)
	repo := NewTimelineRepository(store)
	ctx := context.Background()

	placedAt := time.Now().UTC().Add(-time.Minute).Round(time.Microsecond)
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{
		OrderNumber: 1,
		Type:        domain.TimelineOrderShipped,
		Reason:      "ship date reached",
		Occurred:    placedAt.Add(10 * time.Second),
	}))
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{
		OrderNumber: 1,
		Type:        domain.TimelineOrderPlaced,
		Occurred:    placedAt,
	}))
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderNumber: 2, Type: domain.TimelineOrderPlaced}))

	events, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, domain.TimelineOrderPlaced, events[0].Type)
	require.Equal(t, domain.TimelineOrderShipped, events[1].Type)
	require.True(t, events[0].Occurred.Equal(placedAt))

	other, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, other, 1)
	require.False(t, other[0].Occurred.IsZero(), "zero timestamp must be filled on append")
}

func TestTimelineRepository_PostgresSurvivesOrderDeletion(t *testing.T) {
	store := migratedStore(t)
	repo := NewTimelineRepository(store)
	ctx := context.Background()

	// У событий нет внешнего ключа на orders: история удалённого заказа остаётся.
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderNumber: 404, Type: domain.TimelineOrderDeleted}))

	events, err := repo.List(ctx, 404)
	require.NoError(t, err)
	require.Len(t, events, 1)

	none, err := repo.List(ctx, 405)
	require.NoError(t, err)
	require.Empty(t, none)
}

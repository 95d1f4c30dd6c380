package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/memory"
)

func TestTimelineRepository_ChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTimelineRepository()
	base := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderNumber: 1, Type: domain.TimelineOrderShipped, Occurred: base.Add(time.Hour)}))
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderNumber: 1, Type: domain.TimelineOrderPlaced, Occurred: base}))
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderNumber: 2, Type: domain.TimelineOrderPlaced, Occurred: base}))

	events, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, domain.TimelineOrderPlaced, events[0].Type)
	require.Equal(t, domain.TimelineOrderShipped, events[1].Type)

	events[0].Type = "mutated"
	again, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, domain.TimelineOrderPlaced, again[0].Type)
}

func TestTimelineRepository_FillsTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTimelineRepository()

	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderNumber: 7, Type: domain.TimelineOrderDeleted}))

	events, err := repo.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.False(t, events[0].Occurred.IsZero())

	empty, err := repo.List(ctx, 99)
	require.NoError(t, err)
	require.Empty(t, empty)
}

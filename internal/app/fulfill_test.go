package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunFulfillment_EmptyMemoryStore(t *testing.T) {
	shipped, err := RunFulfillment(context.Background(), DefaultConfig())
	require.NoError(t, err)
	require.Zero(t, shipped)
}

func TestRunFulfillment_InvalidStorage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = StorageDriverPostgres

	_, err := RunFulfillment(context.Background(), cfg)
	require.Error(t, err)
}

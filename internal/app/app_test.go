package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/sipcall/internal/app/directory"
	"github.com/PabloGalante/sipcall/internal/config"
	"github.com/PabloGalante/sipcall/internal/domain"
	"github.com/PabloGalante/sipcall/internal/observability"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StorageBackend: config.BackendMemory,
		BusyPolicy:     "reject",
	}
}

func TestNewWiresServices(t *testing.T) {
	observability.Discard()
	ctx := context.Background()

	a, err := New(ctx, memoryConfig())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Directory.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567"})
	require.NoError(t, err)

	ctrl, err := a.Calls.StartOutgoing(ctx, "0901234567")
	require.NoError(t, err)
	<-ctrl.Resolved()
	require.NoError(t, ctrl.MarkConnected(ctx))
	require.NoError(t, ctrl.Terminate(ctx))

	records, err := a.History.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Anna", records[0].Name)
	assert.Equal(t, domain.CallOutgoing, records[0].Type)
}

func TestNewStrictInput(t *testing.T) {
	observability.Discard()
	cfg := memoryConfig()
	cfg.StrictInput = true

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	_, err = a.Directory.Create(context.Background(), directory.CreateContactInput{Name: "Anna", Phone: "12"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewRejectsUnknownBusyPolicy(t *testing.T) {
	cfg := memoryConfig()
	cfg.BusyPolicy = "queue"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

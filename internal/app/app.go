// Package app wires the storage backend into the directory, history and
// call-session services shared by the API server and the CLI.
package app

import (
	"context"

	"github.com/pkg/errors"

	"github.com/PabloGalante/sipcall/internal/adapters/storage"
	"github.com/PabloGalante/sipcall/internal/app/callsession"
	"github.com/PabloGalante/sipcall/internal/app/directory"
	"github.com/PabloGalante/sipcall/internal/app/history"
	"github.com/PabloGalante/sipcall/internal/app/synchronizer"
	"github.com/PabloGalante/sipcall/internal/config"
)

type App struct {
	Directory *directory.Service
	History   *history.Service
	Calls     *callsession.Manager

	stores *storage.Stores
}

// New opens the configured backend and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	policy, err := callsession.ParseBusyPolicy(cfg.BusyPolicy)
	if err != nil {
		return nil, errors.Wrap(err, "invalid session config")
	}

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dir := directory.NewService(stores.Contacts, directory.WithStrictInput(cfg.StrictInput))
	hist := history.NewService(stores.History)

	// 1 synchronizer, shared by every session the manager starts
	syncer := synchronizer.New(dir, hist)

	return &App{
		Directory: dir,
		History:   hist,
		Calls:     callsession.NewManager(syncer, callsession.WithBusyPolicy(policy)),
		stores:    stores,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.stores == nil {
		return nil
	}
	return a.stores.Close()
}

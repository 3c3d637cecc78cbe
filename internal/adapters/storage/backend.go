// Package storage selects the contact and call-history backends from config.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/PabloGalante/sipcall/internal/adapters/storage/firestore"
	"github.com/PabloGalante/sipcall/internal/adapters/storage/memory"
	"github.com/PabloGalante/sipcall/internal/adapters/storage/sqlstore"
	"github.com/PabloGalante/sipcall/internal/config"
	"github.com/PabloGalante/sipcall/internal/domain"
	"github.com/PabloGalante/sipcall/internal/observability"
)

// Stores bundles the two ports backed by a single backend.
type Stores struct {
	Contacts domain.ContactStore
	History  domain.CallHistoryStore

	closer func() error
}

func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Open connects the backend named by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	logger := observability.WithFields("backend", cfg.StorageBackend)

	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Info("using in-memory storage")
		return &Stores{
			Contacts: memory.NewContactStore(),
			History:  memory.NewHistoryStore(),
		}, nil

	case config.BackendSQLite, config.BackendPostgres:
		dialect := sqlstore.SQLite
		if cfg.StorageBackend == config.BackendPostgres {
			dialect = sqlstore.Postgres
		}
		s, err := sqlstore.Open(dialect, cfg.StorageDSN)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s storage", cfg.StorageBackend)
		}
		logger.Info("using sql storage")
		return &Stores{Contacts: s, History: s, closer: s.Close}, nil

	case config.BackendFirestore:
		s, err := firestore.NewStore(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open firestore storage")
		}
		logger.Info("using firestore storage", "project", cfg.FirestoreProject)
		return &Stores{Contacts: s, History: s, closer: s.Close}, nil

	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

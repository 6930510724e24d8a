package database

import (
	"context"
	"fmt"

	"plant-store/internal/config"
	"plant-store/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store bundles the plant repository with the connection it was built on
type Store struct {
	Driver string
	Plants repository.PlantRepository

	pool   *pgxpool.Pool
	client *mongo.Client
	logger *zap.Logger
}

// Open connects to the backend selected by cfg.Store.Driver. When migrate
// is set, pending Postgres migrations run before the store is returned.
func Open(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger) (*Store, error) {
	store := &Store{Driver: cfg.Store.Driver, logger: logger}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if migrate {
			db := SQLDB(pool)
			err := RunMigrations(db, logger)
			db.Close()
			if err != nil {
				pool.Close()
				return nil, err
			}
		}
		store.pool = pool
		store.Plants = repository.NewPostgresPlantRepository(pool)

	case config.DriverMongo:
		client, err := NewMongoClient(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		store.client = client
		store.Plants = repository.NewMongoPlantRepository(db)

	case config.DriverMemory:
		logger.Warn("Using in-memory plant store; data is lost on exit")
		store.Plants = repository.NewMemoryPlantRepository()

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return store, nil
}

// Pool returns the Postgres pool, or nil for other drivers
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Health reports the backend status for the health endpoint
func (s *Store) Health(ctx context.Context) map[string]string {
	if s.pool != nil {
		return Health(ctx, s.pool)
	}

	stats := map[string]string{"status": "up"}
	if err := s.Plants.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
	}
	return stats
}

// Close releases the underlying connections
func (s *Store) Close(ctx context.Context) error {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("Disconnected from database", zap.String("driver", s.Driver))
	}
	if s.client != nil {
		if err := s.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to disconnect from mongo: %w", err)
		}
		s.logger.Info("Disconnected from database", zap.String("driver", s.Driver))
	}
	return nil
}

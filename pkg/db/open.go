package db

import (
	"context"
	"fmt"

	"content-sync/pkg/config"
	"content-sync/pkg/logger"
)

// Open connects the store selected by cfg.DBDriver and creates its schema
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, error) {
	log = logger.OrNop(log)

	var store Store
	switch cfg.DBDriver {
	case config.DriverSQLite:
		client := NewSQLiteClient(cfg.DBPath)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		store = NewSQLStore(client, DialectSQLite, log)

	case config.DriverPostgres:
		client := NewPostgresClient(PostgresConfig{DSN: cfg.PostgresDSN})
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		store = NewSQLStore(client, DialectPostgres, log)

	case config.DriverSupabase:
		client := NewSupabaseClient(SupabaseConfig{
			ConnectionString: cfg.PostgresDSN,
			SupabaseURL:      cfg.SupabaseURL,
			SupabaseKey:      cfg.SupabaseKey,
			Password:         cfg.SupabaseDBPassword,
		})
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		if !client.HasDirectDB() {
			return nil, fmt.Errorf("supabase store requires a database password or connection string")
		}
		store = NewSQLStore(client, DialectPostgres, log)

	case config.DriverMongo:
		mongoStore, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, err
		}
		store = mongoStore

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	if sqlStore, ok := store.(*SQLStore); ok {
		if sb, ok := sqlStore.provider.(*SupabaseClient); ok && sb.SDK() != nil {
			if err := sb.Probe("sync_history"); err != nil {
				log.Warn("Supabase REST API not reachable", logger.Error(err))
			}
		}
	}

	log.Info("Store opened", logger.String("driver", cfg.DBDriver))
	return store, nil
}

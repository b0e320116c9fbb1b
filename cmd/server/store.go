package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/messagely/messaging-system/internal/api/handler"
	"github.com/messagely/messaging-system/internal/core/ports"
	"github.com/messagely/messaging-system/internal/infrastructure/db/memory"
	mongostore "github.com/messagely/messaging-system/internal/infrastructure/db/mongo"
	"github.com/messagely/messaging-system/internal/infrastructure/db/postgres"
	redisstore "github.com/messagely/messaging-system/internal/infrastructure/db/redis"
	"github.com/messagely/messaging-system/internal/pkg/config"
)

// store is the repository pair for the configured backend plus what is
// needed to probe and release it.
type store struct {
	users     ports.UserRepository
	messages  ports.MessageRepository
	readiness map[string]handler.Pinger
	closers   []func()
}

func (s *store) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		mem := memory.NewStore()
		return &store{
			users:     mem.Users(),
			messages:  mem.Messages(),
			readiness: map[string]handler.Pinger{"memory": mem},
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{
			users:     postgres.NewUserRepository(db),
			messages:  postgres.NewMessageRepository(db),
			readiness: map[string]handler.Pinger{"postgres": pingFunc(db.PingContext)},
			closers:   []func(){func() { _ = db.Close() }},
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s := &store{closers: []func(){func() { _ = client.Disconnect(context.Background()) }}}

		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			s.close()
			return nil, err
		}

		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			s.close()
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = rdb.Close() })

		s.users = mongostore.NewUserRepository(db)
		s.messages = mongostore.NewMessageRepository(db, redisstore.NewSequence(rdb))
		s.readiness = map[string]handler.Pinger{
			"mongodb": mongostore.NewPinger(db),
			"redis":   redisstore.NewPinger(rdb),
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

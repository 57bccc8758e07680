package main

import (
	"context"
	"fmt"

	"github.com/AaronLay10/roommap/internal/config"
	"github.com/AaronLay10/roommap/internal/storage"
	"github.com/AaronLay10/roommap/internal/storage/file"
	"github.com/AaronLay10/roommap/internal/storage/memory"
	"github.com/AaronLay10/roommap/internal/storage/postgres"
	"github.com/AaronLay10/roommap/internal/storage/sqlite"
)

// blobBackend is the selected storage.Blobs plus its shutdown hook.
type blobBackend struct {
	blobs storage.Blobs
	close func() error
}

func openBlobs(ctx context.Context, env *config.Env, secrets *config.Secrets) (*blobBackend, error) {
	noop := func() error { return nil }

	switch env.Store {
	case "memory":
		return &blobBackend{blobs: memory.New(), close: noop}, nil
	case "file":
		s, err := file.New(env.DataDir)
		if err != nil {
			return nil, err
		}
		return &blobBackend{blobs: s, close: noop}, nil
	case "sqlite":
		s, err := sqlite.Open(env.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &blobBackend{blobs: s, close: s.Close}, nil
	case "postgres":
		c, err := postgres.New(ctx, postgres.Settings{
			Host:     env.PGHost,
			Port:     env.PGPort,
			User:     env.PGUser,
			Password: secrets.PGPassword,
			Database: env.PGDatabase,
		})
		if err != nil {
			return nil, err
		}
		return &blobBackend{blobs: c, close: c.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", env.Store)
	}
}

package storage

import (
	"fmt"
	"log"

	"docbench/internal/config"
	"docbench/internal/port"
	"docbench/internal/repository/postgres"
	"docbench/internal/storage/local"
	"docbench/internal/storage/s3"
)

// NewKVStore builds the history backend selected by history.driver.
// The returned close func releases any pooled connections.
func NewKVStore(cfg *config.Config) (port.KVStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.History.Driver {
	case "", "memory":
		return local.NewMemoryStore(), noop, nil
	case "file":
		store, err := local.NewFileStore(cfg.History.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("storage: file history at %s", cfg.History.FilePath)
		return store, noop, nil
	case "s3":
		store, err := s3.NewKVStore(&cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("storage: s3 history in bucket %s", cfg.S3.Bucket)
		return store, noop, nil
	case "postgres":
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("storage: postgres history at %s:%d", cfg.DB.Host, cfg.DB.Port)
		return postgres.NewKVStore(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown history driver %q", cfg.History.Driver)
	}
}

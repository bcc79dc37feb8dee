package snapshot

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"
)

type Settings struct {
	// Path is the database directory. Empty keeps everything in memory.
	Path string
}

func NewDB(settings Settings) (*badgerhold.Store, error) {
	options := badgerhold.DefaultOptions
	options.Logger = nil

	if settings.Path == "" {
		options.InMemory = true
		options.Dir = ""
		options.ValueDir = ""
	} else {
		if err := os.MkdirAll(settings.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		options.Dir = settings.Path
		options.ValueDir = settings.Path
	}

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	return db, nil
}

// Package snapshot keeps fetched raw statements per company.
package snapshot

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/de-tools/clarity/pkg/models/store"
	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"
)

var ErrNotFound = errors.New("snapshot not found")

type Store interface {
	Add(ctx context.Context, snapshot store.Snapshot) (store.Snapshot, error)
	Get(ctx context.Context, id string) (store.Snapshot, error)
	// List returns the company's snapshots, newest first. An empty kind
	// matches every statement kind.
	List(ctx context.Context, company, kind string) ([]store.Snapshot, error)
}

type snapshotStore struct {
	db  *badgerhold.Store
	now func() time.Time
}

func NewStore(db *badgerhold.Store) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &snapshotStore{
		db:  db,
		now: time.Now,
	}, nil
}

func (s *snapshotStore) Add(_ context.Context, snapshot store.Snapshot) (store.Snapshot, error) {
	if snapshot.Company == "" {
		return store.Snapshot{}, fmt.Errorf("snapshot company is required")
	}
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = s.now().UTC()
	}

	if err := s.db.Insert(snapshot.ID, snapshot); err != nil {
		return store.Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *snapshotStore) Get(_ context.Context, id string) (store.Snapshot, error) {
	var snapshot store.Snapshot
	if err := s.db.Get(id, &snapshot); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return store.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return store.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *snapshotStore) List(_ context.Context, company, kind string) ([]store.Snapshot, error) {
	query := badgerhold.Where("Company").Eq(company).Index("Company")
	if kind != "" {
		query = query.And("Kind").Eq(kind)
	}

	snapshots := make([]store.Snapshot, 0)
	if err := s.db.Find(&snapshots, query); err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}

	slices.SortStableFunc(snapshots, func(a, b store.Snapshot) int {
		return cmp.Or(b.FetchedAt.Compare(a.FetchedAt), cmp.Compare(a.ID, b.ID))
	})
	return snapshots, nil
}

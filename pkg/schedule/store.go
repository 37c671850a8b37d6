package schedule

import (
	"slices"
	"sync"
	"time"

	"github.com/limaJavier/roomscheduler/pkg/model"
)

// Snapshot is the published outcome of a generation run together with the catalog it was built from
type Snapshot struct {
	RunId       string
	GeneratedAt time.Time
	Catalog     *model.Catalog
	Assignments []model.Assignment
	Unscheduled []Unscheduled
}

// Store keeps the current assignment set. Replace swaps the whole set at once so that readers observe
// either the previous run or the new one, never a partial set
type Store interface {
	Replace(snapshot Snapshot)
	Snapshot() Snapshot
}

type memoryStore struct {
	mutex    sync.RWMutex
	snapshot Snapshot
}

func NewMemoryStore() Store {
	return &memoryStore{
		snapshot: Snapshot{Assignments: []model.Assignment{}, Unscheduled: []Unscheduled{}},
	}
}

func (store *memoryStore) Replace(snapshot Snapshot) {
	snapshot.Assignments = slices.Clone(snapshot.Assignments)
	snapshot.Unscheduled = slices.Clone(snapshot.Unscheduled)

	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.snapshot = snapshot
}

func (store *memoryStore) Snapshot() Snapshot {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	snapshot := store.snapshot
	snapshot.Assignments = slices.Clone(snapshot.Assignments)
	snapshot.Unscheduled = slices.Clone(snapshot.Unscheduled)
	return snapshot
}

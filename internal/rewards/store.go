package rewards

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/studysmart/internal/models"
)

// StatsStore persists stats and points history per owner. Commit must apply
// the delta and append history atomically.
type StatsStore interface {
	Load(ctx context.Context, owner models.Owner) (models.UserStats, error)
	Commit(ctx context.Context, owner models.Owner, d Delta) (models.UserStats, error)
	History(ctx context.Context, owner models.Owner, limit int) ([]models.PointsEntry, error)
}

// MemoryStore keeps stats in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	stats   map[models.Owner]models.UserStats
	history map[models.Owner][]models.PointsEntry
	seq     map[models.Owner]int64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stats:   make(map[models.Owner]models.UserStats),
		history: make(map[models.Owner][]models.PointsEntry),
		seq:     make(map[models.Owner]int64),
		now:     time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Load(_ context.Context, owner models.Owner) (models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats[owner], nil
}

func (m *MemoryStore) Commit(_ context.Context, owner models.Owner, d Delta) (models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	updated := Apply(m.stats[owner], d, now)
	m.stats[owner] = updated

	entry := d.Entry(now)
	// IDs keep growing after the history is trimmed.
	m.seq[owner]++
	entry.ID = m.seq[owner]
	h := append([]models.PointsEntry{entry}, m.history[owner]...)
	if len(h) > HistoryLimit {
		h = h[:HistoryLimit]
	}
	m.history[owner] = h
	return updated, nil
}

func (m *MemoryStore) History(_ context.Context, owner models.Owner, limit int) ([]models.PointsEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.history[owner]
	if limit > 0 && len(h) > limit {
		h = h[:limit]
	}
	return append([]models.PointsEntry(nil), h...), nil
}

var _ StatsStore = (*MemoryStore)(nil)

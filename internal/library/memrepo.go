package library

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// memrepo is a development-only in-memory archive used when no DB is
// configured.
type memrepo struct {
	mu sync.RWMutex

	nextID int64
	byID   map[int64]*Game
	byUUID map[string]*Game
}

func NewMemoryRepository() Repository {
	return &memrepo{
		byID:   make(map[int64]*Game),
		byUUID: make(map[string]*Game),
	}
}

func (m *memrepo) Close() error { return nil }

func (m *memrepo) InsertGame(ctx context.Context, game *Game) (int64, error) {
	if game == nil {
		return 0, ErrDuplicateGame
	}
	key := strings.TrimSpace(game.UUID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byUUID[key]; exists {
		return 0, ErrDuplicateGame
	}
	m.nextID++
	copy := *game
	copy.ID = m.nextID
	m.byID[copy.ID] = &copy
	m.byUUID[key] = &copy
	return copy.ID, nil
}

func (m *memrepo) GetGameByUUID(ctx context.Context, uuid string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.byUUID[strings.TrimSpace(uuid)]; ok && g != nil {
		copy := *g
		return &copy, nil
	}
	return nil, nil
}

func (m *memrepo) GetRecentGames(ctx context.Context, limit int) ([]*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]*Game, 0, len(m.byID))
	for _, g := range m.byID {
		copy := *g
		items = append(items, &copy)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].UploadedAt.Equal(items[j].UploadedAt) {
			return items[i].UploadedAt.After(items[j].UploadedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

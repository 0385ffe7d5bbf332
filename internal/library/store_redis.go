package library

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/replayboard/internal/obslog"
)

// Store keeps the active game library in Redis: the full record per game id
// plus a recency index used for listing and trimming.
type Store struct {
	rdb      *redis.Client
	ttl      time.Duration
	maxGames int
}

func NewStore(redisURL string, ttl time.Duration, maxGames int) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for library store")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if maxGames <= 0 {
		maxGames = 500
	}
	return &Store{rdb: rdb, ttl: ttl, maxGames: maxGames}, nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// Put stores the game and updates the recency index, evicting the oldest
// entries beyond the configured library size.
func (s *Store) Put(ctx context.Context, g *Game) error {
	if g == nil || strings.TrimSpace(g.UUID) == "" {
		return fmt.Errorf("invalid game record")
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	if err := s.rdb.Set(ctx, gameKey(g.UUID), raw, s.ttl).Err(); err != nil {
		return err
	}
	score := float64(g.UploadedAt.UnixNano())
	if err := s.rdb.ZAdd(ctx, indexKey, redis.Z{Score: score, Member: g.UUID}).Err(); err != nil {
		return err
	}
	_ = s.rdb.Expire(ctx, indexKey, s.ttl).Err()

	// Evict beyond capacity, oldest first.
	count, err := s.rdb.ZCard(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	if over := int(count) - s.maxGames; over > 0 {
		old, err := s.rdb.ZRange(ctx, indexKey, 0, int64(over-1)).Result()
		if err != nil {
			return err
		}
		for _, id := range old {
			_ = s.rdb.Del(ctx, gameKey(id)).Err()
		}
		if err := s.rdb.ZRemRangeByRank(ctx, indexKey, 0, int64(over-1)).Err(); err != nil {
			return err
		}
		obslog.L().Info("library_evict", zap.Int("evicted", over))
	}
	return nil
}

// Get returns the stored game, or nil when absent or expired.
func (s *Store) Get(ctx context.Context, id string) (*Game, error) {
	raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns the most recently uploaded games, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*Game, error) {
	if limit <= 0 {
		limit = 50
	}
	ids, err := s.rdb.ZRevRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	games := make([]*Game, 0, len(ids))
	for _, id := range ids {
		g, gerr := s.Get(ctx, id)
		if gerr != nil || g == nil {
			continue // expired record still in index
		}
		games = append(games, g)
	}
	return games, nil
}

// Delete removes a game and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, gameKey(id)).Err(); err != nil {
		return err
	}
	return s.rdb.ZRem(ctx, indexKey, id).Err()
}

const indexKey = "library:index"

func gameKey(id string) string { return "library:game:" + strings.TrimSpace(id) }

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}

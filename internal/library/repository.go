package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

var ErrDuplicateGame = errors.New("replay game already archived")

// Repository is the durable archive behind the Redis library. Uploads are
// archived once; the library store can be rebuilt from here after a flush.
type Repository interface {
	InsertGame(ctx context.Context, game *Game) (int64, error)
	GetGameByUUID(ctx context.Context, uuid string) (*Game, error)
	GetRecentGames(ctx context.Context, limit int) ([]*Game, error)
	Close() error
}

type repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL required for archive repository")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	r := &repository{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *repository) Close() error { return r.db.Close() }

func (r *repository) ensureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS replay_games (
			id          BIGSERIAL PRIMARY KEY,
			game_uuid   TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL,
			pgn         TEXT NOT NULL,
			result      TEXT NOT NULL,
			move_count  INTEGER NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure replay_games schema: %w", err)
	}
	return nil
}

func (r *repository) InsertGame(ctx context.Context, game *Game) (int64, error) {
	if game == nil {
		return 0, fmt.Errorf("nil game payload")
	}
	const query = `
		INSERT INTO replay_games (game_uuid, name, pgn, result, move_count, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_uuid) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err := r.db.QueryRowContext(ctx, query,
		game.UUID,
		game.Name,
		game.PGN,
		game.Result,
		game.MoveCount,
		game.UploadedAt,
	).Scan(&id)
	if err == sql.ErrNoRows || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert replay game: %w", err)
	}
	return id.Int64, nil
}

func (r *repository) GetGameByUUID(ctx context.Context, uuid string) (*Game, error) {
	const query = `
		SELECT id, game_uuid, name, pgn, result, move_count, uploaded_at
		FROM replay_games
		WHERE game_uuid = $1`

	var g Game
	err := r.db.QueryRowContext(ctx, query, uuid).Scan(
		&g.ID, &g.UUID, &g.Name, &g.PGN, &g.Result, &g.MoveCount, &g.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select replay game: %w", err)
	}
	return &g, nil
}

func (r *repository) GetRecentGames(ctx context.Context, limit int) ([]*Game, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, game_uuid, name, pgn, result, move_count, uploaded_at
		FROM replay_games
		ORDER BY uploaded_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select replay games: %w", err)
	}
	defer rows.Close()

	games := make([]*Game, 0, limit)
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.UUID, &g.Name, &g.PGN, &g.Result, &g.MoveCount, &g.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan replay game: %w", err)
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}

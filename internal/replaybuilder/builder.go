package replaybuilder

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/replayboard/internal/anim"
	"github.com/kapu/replayboard/internal/config"
	"github.com/kapu/replayboard/internal/library"
	"github.com/kapu/replayboard/internal/scene"
)

type Deps struct {
	Store    *library.Store
	Repo     library.Repository
	Renderer *scene.SnapshotRenderer
	Timing   anim.Timing
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timing, err := anim.LoadTiming(cfg.TimingFile)
	if err != nil {
		return nil, fmt.Errorf("load animation timing: %w", err)
	}

	store, err := library.NewStore(cfg.RedisURL, time.Duration(cfg.LibraryTTLSec)*time.Second, cfg.LibraryMaxGames)
	if err != nil {
		return nil, fmt.Errorf("init library store: %w", err)
	}

	var repo library.Repository
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		repo, err = library.NewRepository(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init archive repository: %w", err)
		}
	} else {
		logger.Warn("DATABASE_URL not set; using in-memory archive")
		repo = library.NewMemoryRepository()
	}

	return &Deps{
		Store:    store,
		Repo:     repo,
		Renderer: scene.NewSnapshotRenderer(cfg.ThumbnailSize),
		Timing:   timing,
	}, nil
}

func (d *Deps) Close() {
	if d == nil {
		return
	}
	if d.Store != nil {
		_ = d.Store.Close()
	}
	if d.Repo != nil {
		_ = d.Repo.Close()
	}
}

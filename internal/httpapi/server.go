package httpapi

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kapu/replayboard/internal/board"
	"github.com/kapu/replayboard/internal/library"
	"github.com/kapu/replayboard/internal/rules"
	"github.com/kapu/replayboard/internal/scene"
	"github.com/kapu/replayboard/internal/timeline"
	"github.com/kapu/replayboard/pkg/replaydto"
)

// Server is the REST surface for library management: upload, list, thumbnail.
type Server struct {
	store     *library.Store
	repo      library.Repository
	renderer  *scene.SnapshotRenderer
	maxUpload int
	logger    *zap.Logger
}

func NewServer(store *library.Store, repo library.Repository, renderer *scene.SnapshotRenderer, maxUpload int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = 1 << 20
	}
	return &Server{store: store, repo: repo, renderer: renderer, maxUpload: maxUpload, logger: logger}
}

func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		method := string(ctx.Method())

		switch {
		case path == "/health" && method == fasthttp.MethodGet:
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		case path == "/games" && method == fasthttp.MethodPost:
			s.handleUpload(ctx)
		case path == "/games" && method == fasthttp.MethodGet:
			s.handleList(ctx)
		case strings.HasPrefix(path, "/games/") && strings.HasSuffix(path, "/thumbnail") && method == fasthttp.MethodGet:
			s.handleThumbnail(ctx, strings.TrimSuffix(strings.TrimPrefix(path, "/games/"), "/thumbnail"))
		default:
			writeError(ctx, fasthttp.StatusNotFound, "not found")
		}
	}
}

func (s *Server) handleUpload(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()
	if len(body) > s.maxUpload {
		writeError(ctx, fasthttp.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	var req replaydto.UploadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}

	tl, err := timeline.Parse(req.PGN)
	if err != nil {
		if errors.Is(err, timeline.ErrNoTimeline) {
			writeError(ctx, fasthttp.StatusUnprocessableEntity, "no usable timeline in record")
			return
		}
		writeError(ctx, fasthttp.StatusInternalServerError, "parse failure")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Untitled game"
	}
	game := &library.Game{
		UUID:       uuid.NewString(),
		Name:       name,
		PGN:        strings.TrimSpace(req.PGN),
		Result:     tl.Result,
		MoveCount:  tl.TotalMoves(),
		UploadedAt: time.Now(),
	}
	if err := s.store.Put(ctx, game); err != nil {
		s.logger.Error("library_put_error", zap.String("uuid", game.UUID), zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "store failure")
		return
	}
	if s.repo != nil {
		if _, err := s.repo.InsertGame(ctx, game); err != nil && !errors.Is(err, library.ErrDuplicateGame) {
			s.logger.Warn("library_archive_error", zap.String("uuid", game.UUID), zap.Error(err))
		}
	}
	s.logger.Info("library_upload",
		zap.String("uuid", game.UUID),
		zap.String("result", game.Result),
		zap.Int("moves", game.MoveCount),
	)
	writeJSON(ctx, fasthttp.StatusCreated, replaydto.UploadResponse{Game: summarize(game)})
}

func (s *Server) handleList(ctx *fasthttp.RequestCtx) {
	limit := 50
	if v := string(ctx.QueryArgs().Peek("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	games, err := s.store.List(ctx, limit)
	if err != nil {
		s.logger.Error("library_list_error", zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "list failure")
		return
	}
	resp := replaydto.ListResponse{Games: make([]replaydto.GameSummary, 0, len(games))}
	for _, g := range games {
		resp.Games = append(resp.Games, summarize(g))
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

// handleThumbnail renders the position at ?index=N (default: final position)
// directly from a throwaway replay; no session state is involved.
func (s *Server) handleThumbnail(ctx *fasthttp.RequestCtx, id string) {
	game, err := s.store.Get(ctx, id)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "store failure")
		return
	}
	if game == nil {
		writeError(ctx, fasthttp.StatusNotFound, "game not found")
		return
	}
	tl, err := timeline.Parse(game.PGN)
	if err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, "no usable timeline in record")
		return
	}

	index := tl.FinalIndex()
	if v := string(ctx.QueryArgs().Peek("index")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			index = n
		}
	}
	if index > tl.FinalIndex() {
		index = tl.FinalIndex()
	}

	replay := rules.NewReplay()
	for _, san := range tl.SANs(index) {
		if _, err := replay.Apply(san); err != nil {
			break // truncated record still renders its good prefix
		}
	}
	registry := board.NewRegistry()
	registry.Reset(replay.Snapshot())

	pngData, err := s.renderer.RenderPNG(ctx, registry.Snapshot())
	if err != nil {
		s.logger.Error("thumbnail_render_error", zap.String("uuid", id), zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "render failure")
		return
	}
	ctx.SetContentType("image/png")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(pngData)
}

func summarize(g *library.Game) replaydto.GameSummary {
	return replaydto.GameSummary{
		UUID:       g.UUID,
		Name:       g.Name,
		Result:     g.Result,
		MoveCount:  g.MoveCount,
		UploadedAt: g.UploadedAt,
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(raw)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, replaydto.ErrorResponse{Error: msg})
}

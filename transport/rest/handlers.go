package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zermelo-games/noughts-backend/internal/entity"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

type archiveService interface {
	RecentGames(ctx context.Context, limit int) ([]*entity.ArchivedGame, error)
}

type Handlers struct {
	logger  *slog.Logger
	archive archiveService
}

func NewHandlers(logger *slog.Logger, archive archiveService) *Handlers {
	return &Handlers{
		logger:  logger,
		archive: archive,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		that.logger.Error("failed to write health response", "error", err)
	}
}

// RecentGames serves the newest archive records, newest first. The
// limit query parameter is optional and capped.
func (that *Handlers) RecentGames(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "RecentGames")

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	games, err := that.archive.RecentGames(r.Context(), limit)
	if err != nil {
		log.Error("failed to list recent games", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	if games == nil {
		games = []*entity.ArchivedGame{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(games); err != nil {
		log.Error("failed to encode recent games", "error", err)
	}
}

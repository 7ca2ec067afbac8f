package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tenpin/tenpin/pkg/bowling"
	"github.com/tenpin/tenpin/server/internal/lane"
)

// maxBodyBytes caps request bodies; a roll is a handful of bytes.
const maxBodyBytes = 1 << 10

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	lane *lane.Lane
	mux  *http.ServeMux
}

// New creates a Handler wired to the given lane and registers all routes.
func New(l *lane.Lane) http.Handler {
	h := &Handler{lane: l, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", only(http.MethodGet, h.health))
	h.mux.HandleFunc("/api/v1/game", only(http.MethodGet, h.game))
	h.mux.HandleFunc("/api/v1/rolls", only(http.MethodPost, h.roll))
	h.mux.HandleFunc("/api/v1/score", only(http.MethodGet, h.score))
	h.mux.HandleFunc("/api/v1/reset", only(http.MethodPost, h.reset))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// only rejects requests whose method is not method with 405.
func only(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		next(w, r)
	}
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// game returns GET /api/v1/game: the full snapshot of the current game.
func (h *Handler) game(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, h.lane.Snapshot())
}

// roll handles POST /api/v1/rolls.
func (h *Handler) roll(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRoll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.lane.Roll(*req.Pins)
	switch {
	case errors.Is(err, bowling.ErrInvalidPinCount), errors.Is(err, bowling.ErrInvalidFrameTotal):
		slog.Debug("api: roll rejected", "pins", *req.Pins, "err", err)
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("api: roll failed", "pins", *req.Pins, "err", err)
		jsonErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResp(w, http.StatusCreated, snap)
}

// score returns GET /api/v1/score.
func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	score, complete := h.lane.Score()
	jsonResp(w, http.StatusOK, ScoreResponse{Score: score, Complete: complete})
}

// reset handles POST /api/v1/reset.
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, h.lane.Reset())
}

// --- helpers ----------------------------------------------------------------

func decodeRoll(body io.Reader) (RollRequest, error) {
	var req RollRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Pins == nil {
		return req, errors.New(`invalid request body: missing "pins"`)
	}
	return req, nil
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

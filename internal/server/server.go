package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gamearena/internal/coach"
	"gamearena/internal/game"
	"gamearena/internal/ratelimit"
	"gamearena/internal/session"
	"gamearena/internal/storage"
)

// Deps are the collaborators the server routes to. Limiter may be nil.
type Deps struct {
	Registry *game.Registry
	Manager  *session.Manager
	Store    *storage.Store
	Coach    *coach.Coach
	Limiter  *ratelimit.Limiter
	WebFS    fs.FS
	Logger   *zap.Logger
}

// Server is the HTTP server.
type Server struct {
	mux      *http.ServeMux
	registry *game.Registry
	manager  *session.Manager
	store    *storage.Store
	coach    *coach.Coach
	limiter  *ratelimit.Limiter
	webFS    fs.FS
	logger   *zap.Logger
}

// New creates a server with all routes.
func New(d Deps) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		registry: d.Registry,
		manager:  d.Manager,
		store:    d.Store,
		coach:    d.Coach,
		limiter:  d.Limiter,
		webFS:    d.WebFS,
		logger:   d.Logger.With(zap.String("component", "server")),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// API routes
	s.mux.HandleFunc("GET /api/games", s.handleListGames)
	s.mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions/{code}", s.handleGetSession)
	s.mux.HandleFunc("GET /api/sessions/{code}/ws", s.handleWebSocket)
	s.mux.HandleFunc("POST /api/sessions/{code}/reset", s.handleReset)
	s.mux.HandleFunc("POST /api/sessions/{code}/switch", s.handleSwitch)
	s.mux.HandleFunc("GET /api/results", s.handleResults)

	var coachHandler http.Handler = http.HandlerFunc(s.handleCoach)
	if s.limiter != nil {
		coachHandler = s.limiter.Middleware("coach", coachHandler)
	}
	s.mux.Handle("POST /api/coach", coachHandler)

	s.mux.Handle("GET /metrics", promhttp.Handler())

	// Static files
	s.mux.Handle("/", http.FileServer(http.FS(s.webFS)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.List())
}

type createSessionRequest struct {
	GameType string `json:"gameType"`
	PlayerID string `json:"playerId"`
}

type createSessionResponse struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.GameType = strings.TrimSpace(req.GameType)
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.GameType == "" {
		writeError(w, http.StatusBadRequest, "gameType required")
		return
	}
	if req.PlayerID == "" {
		req.PlayerID = uuid.NewString()
	}

	sess, err := s.manager.Create(req.GameType, req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{Code: sess.Code, PlayerID: req.PlayerID})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

type controlRequest struct {
	PlayerID string `json:"playerId"`
	GameType string `json:"gameType"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := s.manager.Reset(sess, req.PlayerID)
	if err != nil {
		writeError(w, controlStatus(err), err.Error())
		return
	}
	s.broadcastState(sess)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameType == "" {
		writeError(w, http.StatusBadRequest, "gameType required")
		return
	}
	v, err := s.manager.Switch(sess, req.PlayerID, req.GameType)
	if err != nil {
		writeError(w, controlStatus(err), err.Error())
		return
	}
	s.broadcastState(sess)
	writeJSON(w, http.StatusOK, v)
}

func controlStatus(err error) int {
	if errors.Is(err, session.ErrNotHost) {
		return http.StatusForbidden
	}
	return http.StatusBadRequest
}

// coachRequest accepts the legacy "game" key alongside "gameType".
type coachRequest struct {
	coach.Request
	Game string `json:"game"`
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	var req coachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// the coach never fails; a bad body still gets a tip
		s.logger.Debug("coach request body", zap.Error(err))
		writeJSON(w, http.StatusOK, coach.Response{Response: coach.Fallback(req.GameType)})
		return
	}
	if req.GameType == "" {
		req.GameType = req.Game
	}
	resp := s.coach.Advise(r.Context(), req.Request)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := s.store.ListResults(r.URL.Query().Get("game"), limit)
	if err != nil {
		s.logger.Error("list results", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load results")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.manager.Get(r.PathValue("code"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess, ok
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// internal/httpserver/server.go
//
// HTTP wiring for the word game backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     JSON content type, credentialed CORS).
//   - Public endpoints: "/", "/health".
//   - Auth endpoints: /auth/* (signup, login, logout, me).
//   - Game endpoints (require auth): /games/*.
//   - Admin reporting endpoints (require auth): /admin/*.
//   - Engine error codes mapped to HTTP statuses in one place.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wordgame/go-server/internal/game"
	"github.com/wordgame/go-server/internal/report"
)

// Options carries the environment-derived settings the server needs.
type Options struct {
	ClientOrigin  string
	JWTSecret     string
	CookieName    string
	SecureCookies bool
	TokenTTL      time.Duration
}

// Server bundles router, game engine, user storage, and reporting.
type Server struct {
	r       *chi.Mux
	engine  *game.Engine
	users   *Users
	reports *report.Service
	opts    Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(engine *game.Engine, users *Users, reports *report.Service, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "wordgame_token"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 14 * 24 * time.Hour
	}
	s := &Server{r: chi.NewRouter(), engine: engine, users: users, reports: reports, opts: opts}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordgame-go",
			"endpoints": []string{"/health", "/auth/*", "/games/*", "/admin/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.mountAuth()
	s.mountGames()
	s.mountAdmin()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errBody{Code: "NOT_FOUND", Message: "no such endpoint: " + r.URL.Path})
	})

	return s
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ responses ----------------------------------

// errBody is the uniform error payload: stable code + readable message.
type errBody struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError maps engine error codes to HTTP statuses. Anything that is
// not a coded game error is a dependency failure and stays opaque.
func writeError(w http.ResponseWriter, err error) {
	var ge *game.Error
	if !errors.As(err, &ge) {
		log.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, errBody{Code: "INTERNAL", Message: "internal error"})
		return
	}
	status := http.StatusBadRequest
	switch ge.Code {
	case game.ErrRoundNotFound.Code, game.ErrUnknownPlayer.Code:
		status = http.StatusNotFound
	case game.ErrNotRoundOwner.Code:
		status = http.StatusForbidden
	case game.ErrDailyLimit.Code:
		status = http.StatusTooManyRequests
	case game.ErrRoundAlreadyOpen.Code, game.ErrRoundClosed.Code,
		game.ErrAttemptsExhausted.Code, game.ErrConflict.Code:
		status = http.StatusConflict
	case game.ErrNoWordsAvailable.Code:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errBody{Code: ge.Code, Message: ge.Message})
}

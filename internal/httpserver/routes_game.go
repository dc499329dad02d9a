// internal/httpserver/routes_game.go
//
// Game endpoints. All of them require auth; the authenticated user is
// the acting player. Payloads are fixed typed structs; the engine keeps
// the target word out of every response until a round has ended.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wordgame/go-server/internal/game"
)

func (s *Server) mountGames() {
	s.r.Route("/games", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/start", s.handleStartRound)
		r.Post("/{roundID}/guess", s.handleSubmitGuess)
		r.Get("/{roundID}/guesses", s.handleGetGuesses)
		r.Get("/history", s.handleHistory)
		r.Get("/status", s.handleStatus)
	})
}

// -----------------------------------------------------------------------------
// POST /games/start

type startRoundRes struct {
	RoundID      string    `json:"roundId"`
	StartedAt    time.Time `json:"startedAt"`
	AttemptsLeft int       `json:"attemptsLeft"`
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	round, err := s.engine.StartRound(r.Context(), me.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startRoundRes{
		RoundID:      round.ID,
		StartedAt:    round.StartedAt,
		AttemptsLeft: round.AttemptsRemaining(),
	})
}

// -----------------------------------------------------------------------------
// POST /games/{roundID}/guess

type guessReq struct {
	Guess string `json:"guess"`
}

type guessRes struct {
	ID           string         `json:"id"`
	GuessWord    string         `json:"guessWord"`
	GuessNumber  int            `json:"guessNumber"`
	Evaluation   []game.Outcome `json:"evaluation"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	RoundStatus  game.Status    `json:"roundStatus"`
	Message      string         `json:"message"`
	IsRoundOver  bool           `json:"isRoundOver"`
	AttemptsLeft int            `json:"attemptsLeft"`
	TargetWord   string         `json:"targetWord,omitempty"`
}

func (s *Server) handleSubmitGuess(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	var body guessReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "INVALID_JSON", Message: "malformed request body"})
		return
	}
	res, err := s.engine.SubmitGuess(r.Context(), me.ID, chi.URLParam(r, "roundID"), body.Guess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{
		ID:           res.Record.ID,
		GuessWord:    res.Record.Word,
		GuessNumber:  res.Record.GuessNumber,
		Evaluation:   res.Record.Evaluation,
		SubmittedAt:  res.Record.SubmittedAt,
		RoundStatus:  res.RoundStatus,
		Message:      res.Message,
		IsRoundOver:  res.RoundOver,
		AttemptsLeft: res.AttemptsLeft,
		TargetWord:   res.TargetWord,
	})
}

// -----------------------------------------------------------------------------
// GET /games/{roundID}/guesses

func (s *Server) handleGetGuesses(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	guesses, err := s.engine.Guesses(r.Context(), me.ID, chi.URLParam(r, "roundID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guesses)
}

// -----------------------------------------------------------------------------
// GET /games/history

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	history, err := s.engine.History(r.Context(), me.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// -----------------------------------------------------------------------------
// GET /games/status

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	st, err := s.engine.Status(r.Context(), me.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// internal/httpserver/auth.go
//
// Users, password hashing, JWT issuance, and the auth middleware.
// Tokens are HS256 with id/username claims, delivered as an HttpOnly
// cookie and accepted as either cookie or bearer header.

package httpserver

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/wordgame/go-server/internal/game"
)

// User is a registered player.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Users is the user table access layer. It doubles as the engine's
// PlayerDirectory.
type Users struct {
	db *sql.DB
}

// NewUsers wraps an open database handle.
func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

var errUsernameTaken = errors.New("username taken")

// Create validates input, checks uniqueness, hashes the password, and
// inserts a new user.
func (u *Users) Create(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, password); err != nil {
		return nil, err
	}
	var exists int
	err := u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	switch {
	case err == nil:
		return nil, errUsernameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	usr := &User{
		ID:           genID(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC(),
	}
	_, err = u.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		usr.ID, usr.Username, usr.PasswordHash, usr.CreatedAt.Format(time.RFC3339))
	if err != nil {
		// Losing the check-then-insert race trips the UNIQUE
		// constraint on username.
		var serr sqlite3.Error
		if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
			return nil, errUsernameTaken
		}
		return nil, err
	}
	return usr, nil
}

// FindByUsername loads a user row or errors if missing.
func (u *Users) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                                  FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// FindByID loads a user row or errors if missing.
func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

// ResolvePlayer implements game.PlayerDirectory.
func (u *Users) ResolvePlayer(ctx context.Context, identity string) (string, error) {
	usr, err := u.FindByUsername(ctx, identity)
	if err != nil {
		return "", game.ErrUnknownPlayer
	}
	return usr.ID, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		return nil, err
	}
	t, _ := time.Parse(time.RFC3339, created)
	u.CreatedAt = t
	return &u, nil
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8-100 chars")
	}
	return nil
}

// genID creates a 22-char URL-safe, crypto-random identifier.
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}

// ------------------------------- routes ------------------------------------

type signupReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authUser is placed into request context by the auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

func (s *Server) mountAuth() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
		writeJSON(w, http.StatusOK, me)
	})
}

// handleSignup creates a new user, signs a JWT, and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "INVALID_JSON", Message: "malformed request body"})
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, errUsernameTaken) {
			writeJSON(w, http.StatusConflict, errBody{Code: "USERNAME_TAKEN", Message: "username taken"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errBody{Code: "INVALID_SIGNUP", Message: err.Error()})
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates the user and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "INVALID_JSON", Message: "malformed request body"})
		return
	}
	u, err := s.users.FindByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		writeJSON(w, http.StatusUnauthorized, errBody{Code: "INVALID_CREDENTIALS", Message: "invalid username or password"})
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 token with id/username claims.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	exp := time.Now().Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	tok, err := t.SignedString([]byte(s.opts.JWTSecret))
	return tok, exp, err
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the
// auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- auth middleware ------------------------------

// requireAuth enforces a valid JWT and injects authUser into the request
// context. The user must still exist.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := s.bearerOrCookie(r)
		if tokenStr == "" {
			writeJSON(w, http.StatusUnauthorized, errBody{Code: "UNAUTHORIZED", Message: "authentication required"})
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.opts.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusUnauthorized, errBody{Code: "INVALID_TOKEN", Message: "invalid token"})
			return
		}
		id, _ := claims["id"].(string)
		username, _ := claims["username"].(string)
		if id == "" || username == "" {
			writeJSON(w, http.StatusUnauthorized, errBody{Code: "INVALID_TOKEN", Message: "invalid token"})
			return
		}
		if _, err := s.users.FindByID(r.Context(), id); err != nil {
			writeJSON(w, http.StatusUnauthorized, errBody{Code: "INVALID_TOKEN", Message: "invalid token"})
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: id, Username: username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser pulls the authenticated user from the request context.
func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

package main

import "time"

// Config is populated from the environment (after godotenv loads .env).
type Config struct {
	Port          string        `envconfig:"PORT" default:"8080"`
	DatabasePath  string        `envconfig:"DATABASE_PATH" default:"./data/wordgame.db"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	ClientOrigin  string        `envconfig:"CLIENT_ORIGIN" default:"http://localhost:3000"`
	JWTSecret     string        `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	CookieName    string        `envconfig:"COOKIE_NAME" default:"wordgame_token"`
	SecureCookies bool          `envconfig:"SECURE_COOKIES" default:"false"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"336h"`
	WordsFile     string        `envconfig:"WORDS_FILE"`
	DailyLimit    int           `envconfig:"DAILY_LIMIT" default:"3"`
}

package omn

/*
This file defines the service settings and how they are sourced.

Settings come exclusively from environment variables. Relying on env vars is
made nice for local dev by godotenv (activated in server/main.go), but also
dovetails with config maps in k8s since they can be injected into pods as a
bunch of env vars. There are libraries to map env vars onto structs, but for
four fields we just do it by hand.
*/

import (
	"fmt"
	"os"
	"strconv"
)

// Env var names read by SettingsFromEnv.
const (
	ENV_HOST      string = "HOST"
	ENV_PORT      string = "PORT"
	ENV_DB_URL    string = "DB_URL"
	ENV_QUOTE_URL string = "QUOTE_URL"
)

const DEFAULT_PORT uint16 = 7878

// Settings is shared with every handler by way of the Server.
// It is also what GET / serves, so its fields carry json tags.
type Settings struct {
	Host string `json:"host" example:"0.0.0.0" doc:"interface the server binds to"`
	Port uint16 `json:"port" example:"7878" doc:"port the server binds to"`
	// Connection string handed to the database lib. Must use the db:// scheme.
	DBURL string `json:"db_url" example:"db://localhost/omn" doc:"connection string for the backing database"`
	// Base URL of the quote service. When empty, the server runs an in-process fake upstream.
	QuoteURL string `json:"quote_url,omitempty" example:"http://127.0.0.1:9090" doc:"base url of the upstream quote service"`
}

// Addr returns the host:port pair the settings describe.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SettingsFromEnv sources Settings from the environment.
// HOST and PORT fall back to defaults; DB_URL is required.
func SettingsFromEnv() (Settings, error) {
	s := Settings{
		Host: os.Getenv(ENV_HOST),
		Port: DEFAULT_PORT,
	}
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}

	if raw := os.Getenv(ENV_PORT); raw != "" {
		p, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return Settings{}, ErrBadPort{Raw: raw}
		}
		s.Port = uint16(p)
	}

	s.DBURL = os.Getenv(ENV_DB_URL)
	if s.DBURL == "" {
		return Settings{}, ErrMissingDBURL
	}

	s.QuoteURL = os.Getenv(ENV_QUOTE_URL)

	return s, nil
}

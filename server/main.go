/*
omn-server instance.
Functionally a wrapper around the omn.Server type.

Settings are sourced from the environment (see pkg/omn/settings.go); a local
.env file is honored for dev convenience. LOG_LEVEL tunes verbosity.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/onelson/omn/pkg/omn"
	"github.com/rs/zerolog"
)

func main() {
	godotenv.Load() // a missing .env file is fine; the environment may already be populated

	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).With().
		Timestamp().
		Caller().
		Logger().Level(level)

	settings, err := omn.SettingsFromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("bad settings")
	}

	srv, err := omn.NewServer(settings, omn.SetLogger(&logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to construct server")
	}

	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
	fmt.Println("Send a SIGINT to kill the program")

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt)
	<-done

	fmt.Println("SIGINT captured. Cleaning up....")
	srv.Terminate()
}

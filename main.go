package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/config"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/devserver"
)

// Runs the local dev backend. The client packages (store, api, realtime,
// controllers) are consumed as a library by the rendering layer and point
// at this server during development via API_BASE_URL / REALTIME_URL.
func main() {
	cfg := config.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	srv := devserver.New(cfg.JWTSecret, logger)
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("dev backend stopped")
	}
}

package main

import (
	"os"

	"github.com/rogerio-castellano/wabot-dashboard/internal/cli"
	"github.com/rs/zerolog/log"
)

// @title WhatsApp Bot Dashboard API
// @version 1.0
// @description Analytics, charts and AI insights over the commerce bot backend.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("❌ dashboard exited")
		os.Exit(1)
	}
}

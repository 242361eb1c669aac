package handlers

import (
	"github.com/andesco/bbrun/pkg/bbrun"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// DefaultBodyLimit caps inbound POST bodies when ServerConfig.BodyLimit is 0.
const DefaultBodyLimit = 64 * 1024 * 1024

// ServerConfig is everything NewServer needs to front a board.
type ServerConfig struct {
	Board       string
	Options     bbrun.FrontendOptions
	Runner      *bbrun.Runner
	LogRequests bool
	BodyLimit   int
}

// NewServer returns a Fiber app serving the board on every path.
func NewServer(cfg ServerConfig) *fiber.App {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
	})

	app.Use(recover.New())
	if cfg.LogRequests {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${method} ${path} - ${status} ${latency}\n",
		}))
	}

	app.All("/*", Board(cfg.Board, cfg.Options, cfg.Runner))
	return app
}

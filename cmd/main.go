package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/andesco/bbrun/handlers"
	"github.com/andesco/bbrun/pkg/bbrun"

	"github.com/akamensky/argparse"
)

var version = "0.0.0"

func main() {
	parser := argparse.NewParser("bbrun", "Serves a board frontend and forwards runs to the board's API")

	port := parser.String("p", "port", &argparse.Options{
		Required: false,
		Default:  getenv("PORT", "8080"),
		Help:     "Port the webserver will listen on",
	})
	board := parser.String("b", "board", &argparse.Options{
		Required: false,
		Default:  os.Getenv("BOARD_URL"),
		Help:     "Board URL, e.g. https://example.com/boards/chat.json",
	})
	config := parser.String("c", "config", &argparse.Options{
		Required: false,
		Default:  os.Getenv("FRONTEND_CONFIG"),
		Help:     "YAML file with frontend options",
	})
	frontend := parser.String("f", "frontend", &argparse.Options{
		Required: false,
		Help:     "Frontend module URL, overrides the config file",
	})
	noFrontend := parser.Flag("n", "no-frontend", &argparse.Options{
		Required: false,
		Help:     "Disable the frontend; GET requests answer 405",
	})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}
	if *board == "" {
		fmt.Print(parser.Usage("a board URL is required (--board or BOARD_URL)"))
		os.Exit(1)
	}

	opts, err := bbrun.LoadOptions(*config)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	if *frontend != "" {
		opts.Frontend = bbrun.Frontend{Module: *frontend}
	}
	if *noFrontend {
		opts.Frontend = bbrun.Frontend{Disabled: true}
	}
	if err := opts.Validate(*board); err != nil {
		log.Fatalf("ERROR: Invalid frontend options: %v", err)
	}

	timeout := 0
	if timeoutStr := os.Getenv("HTTP_TIMEOUT"); timeoutStr != "" {
		timeout, err = strconv.Atoi(timeoutStr)
		if err != nil {
			log.Fatalf("ERROR: HTTP_TIMEOUT must be a number of seconds: %v", err)
		}
	}

	bodyLimit := 0
	if limitStr := os.Getenv("BODY_LIMIT"); limitStr != "" {
		bodyLimit, err = strconv.Atoi(limitStr)
		if err != nil {
			log.Fatalf("ERROR: BODY_LIMIT must be a number of bytes: %v", err)
		}
	}

	if _, ok := bbrun.EnvKey(bbrun.KeyEnv)(); !ok {
		log.Printf("WARN: %s is not set, runs will fail until it is", bbrun.KeyEnv)
	}

	app := handlers.NewServer(handlers.ServerConfig{
		Board:       *board,
		Options:     opts,
		Runner:      bbrun.NewRunner(bbrun.EnvKey(bbrun.KeyEnv), time.Duration(timeout)*time.Second),
		LogRequests: os.Getenv("LOG_REQUESTS") == "true",
		BodyLimit:   bodyLimit,
	})

	log.Printf("INFO: bbrun %s fronting %s (runs go to %s)", version, *board, bbrun.BoardToEndpoint(*board))
	log.Fatal(app.Listen(":" + *port))
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Command railopt-server exposes the planner behind a small HTTP API,
// generating a synthetic instance from request parameters and returning
// the solved schedule.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"railopt/internal/httpapi"
	"railopt/internal/logging"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	defaultTimeLimit := flag.Duration("default-time-limit", 30*time.Second, "solver time budget used when a request omits one")
	flag.Parse()

	logging.Init(logging.FromEnv())
	log := logging.Named("railopt-server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.New(httpapi.Options{
		Addr:             *addr,
		DefaultTimeLimit: *defaultTimeLimit,
	})

	log.Info().Str("addr", *addr).Msg("listening")
	if err := srv.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

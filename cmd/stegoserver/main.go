// Command stegoserver runs the HTTP front end over httpapi and storage: the
// long-running equivalent of the four original Lambda functions, wired
// together the way cmd/drand wires its HTTP listener - a flag set, a
// zerolog logger, and a blocking ListenAndServe call.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sushant-iit/stegoforensics/httpapi"
	"github.com/sushant-iit/stegoforensics/storage"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var addr string
	flag.StringVar(&addr, "listen", ":8080", "HTTP listen address")

	var bucket string
	flag.StringVar(&bucket, "bucket", "", "S3 bucket name (default: "+storage.DefaultBucket+", overridable via STEGO_S3_BUCKET)")

	flag.Parse()

	if bucket == "" {
		bucket = os.Getenv("STEGO_S3_BUCKET")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage client")
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewRouter(httpapi.NewServer(store, log)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
		cancel()
	}()

	log.Info().Str("addr", addr).Str("bucket", store.Bucket).Msg("stegoserver listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

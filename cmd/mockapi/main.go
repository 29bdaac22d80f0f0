package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/user/movieticket/internal/mockapi"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	var (
		port = flag.String("port", envOr("MOCK_API_PORT", "8080"), "port to listen on")
		data = flag.String("data", envOr("MOCK_API_DATA", "data/movies.json"), "path to movie data file")
		seed = flag.Bool("seed", false, "write sample movies when the data file does not exist")
	)
	flag.Parse()

	if *seed {
		if _, err := os.Stat(*data); errors.Is(err, os.ErrNotExist) {
			seeded, err := mockapi.NewStore(*data)
			if err != nil {
				log.Fatalf("[MockAPI] open data file: %v", err)
			}
			for _, m := range mockapi.SeedMovies() {
				if _, err := seeded.Create(m); err != nil {
					log.Fatalf("[MockAPI] seed: %v", err)
				}
			}
			log.Printf("[MockAPI] seeded %d movies into %s", seeded.Len(), *data)
		}
	}

	store, err := mockapi.NewStore(*data)
	if err != nil {
		log.Fatalf("[MockAPI] load data: %v", err)
	}
	log.Printf("[MockAPI] loaded %d movies from %s", store.Len(), *data)

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           mockapi.New(store, log.Default()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[MockAPI] listening on http://localhost:%s/api", *port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[MockAPI] server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[MockAPI] shutdown: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ballpulsed is the NBA matchup prediction daemon. It serves matchup
// comparisons, history, and a live prediction feed over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phenomenon0/ballpulse/pkg/api"
	"github.com/phenomenon0/ballpulse/pkg/engine"
	"github.com/phenomenon0/ballpulse/pkg/nba"
	"github.com/phenomenon0/ballpulse/pkg/scoring"
	"github.com/phenomenon0/ballpulse/pkg/stats"
	"github.com/phenomenon0/ballpulse/pkg/stream"
)

var (
	httpAddr     = flag.String("http", ":8080", "HTTP server address")
	redisAddr    = flag.String("redis", "", "Redis address for cache and history (empty = in-memory)")
	fetchTimeout = flag.Duration("fetch-timeout", 5*time.Second, "Per-source stats fetch timeout")
	maxRetries   = flag.Int("max-retries", 1, "Retries per stats source")
	retryBackoff = flag.Duration("retry-backoff", 500*time.Millisecond, "Backoff between stats retries")
	resultTTL    = flag.Duration("result-ttl", time.Hour, "Comparison result cache TTL")
	scoreTTL     = flag.Duration("score-ttl", 30*time.Minute, "Per-team stats cache TTL")
	homeAdv      = flag.Float64("home-advantage", scoring.DefaultHomeAdvantage, "Home-court score bonus")
	steepness    = flag.Float64("steepness", scoring.DefaultSteepness, "Sigmoid steepness")
	noStream     = flag.Bool("no-stream", false, "Disable the WebSocket prediction feed")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("Starting ballpulse prediction daemon")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	resolver := nba.NewResolver()

	chainCfg := stats.DefaultChainConfig()
	chainCfg.Timeout = *fetchTimeout
	chainCfg.Retry.MaxRetries = *maxRetries
	chainCfg.Retry.Backoff = *retryBackoff
	chain := stats.NewChain(resolver, chainCfg)

	engCfg := engine.Config{
		Resolver:  resolver,
		Chain:     chain,
		Model:     scoring.NewModel(scoring.WithHomeAdvantage(*homeAdv), scoring.WithSteepness(*steepness)),
		ResultTTL: *resultTTL,
		ScoreTTL:  *scoreTTL,
	}

	if *redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		cache := engine.NewRedisCache(client)

		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := cache.Ping(pingCtx)
		pingCancel()
		if err != nil {
			// Cache outage degrades to in-process storage, never a dead service.
			log.Printf("[MAIN] redis unreachable at %s, using in-memory stores: %v", *redisAddr, err)
		} else {
			log.Printf("[MAIN] using redis at %s", *redisAddr)
			engCfg.Cache = cache
			engCfg.History = engine.NewRedisHistory(client)
		}
	}

	eng := engine.New(engCfg)

	var hub *stream.Hub
	if !*noStream {
		hub = stream.NewHub()
		go hub.Run()
	}

	server := &http.Server{
		Addr:         *httpAddr,
		Handler:      api.NewServer(eng, hub, log.Default()).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[MAIN] listening on %s", *httpAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		log.Printf("[MAIN] received %v, shutting down", sig)
	case err := <-errCh:
		log.Fatalf("[MAIN] server failed: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[MAIN] shutdown error: %v", err)
	}
	log.Println("[MAIN] goodbye")
}

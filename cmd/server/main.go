package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketpulse/internal/api"
	"marketpulse/internal/config"
	"marketpulse/internal/news"
	"marketpulse/internal/pricing"
	"marketpulse/internal/quote"
	"marketpulse/internal/refresh"
	"marketpulse/internal/search"
	"marketpulse/internal/store"
	"marketpulse/internal/symbol"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] marketpulse starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	// Init quote source
	quotes := quote.NewYahooSource(cfg.Quotes.BaseURL, cfg.Proxy)
	log.Printf("[INFO] quote source: %s", quotes.Name())

	// Init search source (optional)
	var searcher search.Source
	if cfg.Search.Endpoint != "" {
		searcher = search.NewWebSource(cfg.Search.Endpoint, cfg.Search.APIKey, cfg.Proxy)
		log.Printf("[INFO] search source: %s", searcher.Name())
	} else {
		log.Println("[WARN] no search endpoint configured, snippet fallback disabled")
	}

	// Init resolver
	resolver := pricing.NewResolver(quotes, searcher, st)
	resolver.PrimaryTimeout = time.Duration(cfg.Resolver.PrimaryTimeoutSec) * time.Second
	resolver.FreshWindow = time.Duration(cfg.Resolver.CacheTTLMin) * time.Minute
	resolver.SearchResults = cfg.Search.ResultCount
	resolver.MaxConcurrent = cfg.Resolver.MaxConcurrent

	// Init news collector
	var collector *news.Collector
	if searcher != nil {
		collector = news.NewCollector(searcher, st)
		collector.ResultCount = cfg.Search.ResultCount
	}

	// Init refresher
	refresher := refresh.NewRefresher(resolver, collector, symbol.Tracked(),
		time.Duration(cfg.Refresh.TimeoutSec)*time.Second)
	if err := refresher.Register(cfg.Refresh.Cron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	refresher.Start()
	defer refresher.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing refresh now")
		go refresher.RunNow()
	}

	// Init HTTP API
	srv := &api.Server{
		Resolver: resolver,
		Store:    st,
		Symbols:  symbol.Tracked(),
		Trigger:  refresher.RunNow,
	}
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Router(),
	}
	go func() {
		log.Printf("[INFO] http api listening on :%s", cfg.Server.Port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http serve: %v", err)
		}
	}()

	log.Println("[INFO] marketpulse is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] marketpulse stopped")
}

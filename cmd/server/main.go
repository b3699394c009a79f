package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/auth"
	"github.com/inamate/whiteboard/internal/board"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/discovery"
	mw "github.com/inamate/whiteboard/internal/middleware"
	"github.com/inamate/whiteboard/internal/session"
	"github.com/inamate/whiteboard/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := store.Open(ctx, cfg.StoreDriver, cfg.DataDir, cfg.DatabaseURL)
	if err != nil {
		slog.Error("open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	authService := auth.NewService(cfg.OwnerPasswordHash, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)
	if authService.Open() {
		slog.Warn("OWNER_PASSWORD_HASH not set, boards are open to anyone who can reach the server")
	}

	hub := session.NewHub(st, cfg.FlushInterval)
	go hub.Run()

	boardService := board.NewService(st, hub, cfg.StorageKey)
	boardHandler := board.NewHandler(boardService)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	boardHandler.Routes(api)

	// WebSocket endpoint
	originPatterns := cfg.OriginHosts()
	r.HandleFunc("/ws/boards/{boardId}", func(w http.ResponseWriter, r *http.Request) {
		key, err := boardService.Key(mux.Vars(r)["boardId"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		userID, err := authService.Identify(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		session.Serve(hub, w, r, userID, key, originPatterns)
	})

	if cfg.MDNSEnabled {
		adv, err := discovery.Advertise(cfg.MDNSInstance, cfg.Port, cfg.StoreDriver)
		if err != nil {
			slog.Warn("mdns advertise failed", "error", err)
		} else {
			defer adv.Shutdown()
			slog.Info("advertising on mdns", "service", discovery.ServiceType, "instance", cfg.MDNSInstance)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to flush all dirty boards
		slog.Info("saving all boards...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

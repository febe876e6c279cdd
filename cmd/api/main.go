package main

import (
	"net/http"
	"os"
	"time"

	"ambulance-dispatch/internal/adapters/auth/directory"
	"ambulance-dispatch/internal/config"
	"ambulance-dispatch/internal/platform/logger"
	"ambulance-dispatch/internal/ports/auth"
	"ambulance-dispatch/internal/router"

	"github.com/joho/godotenv"
)

// @title Ambulance Dispatch API
// @version 1.0
// @description Despacho y seguimiento de servicios de ambulancia.
// @BasePath /
func main() {
	// .env opcional, solo para dev local
	_ = godotenv.Load()

	cfg := config.FromEnv()
	lg := logger.NewFromEnv()

	var (
		verifier auth.AuthVerifier
		dir      auth.Directory
	)
	if cfg.DirectoryBaseURL != "" {
		client, err := directory.NewClient(directory.Config{
			BaseURL: cfg.DirectoryBaseURL,
			APIKey:  cfg.DirectoryAPIKey,
			Timeout: cfg.DirectoryTimeout,
		})
		if err != nil {
			lg.Error("directory client init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		verifier = directory.NewVerifier(client)
		dir = client
	} else {
		lg.Warn("directory not configured, auth runs in dev mode (X-Debug-User-ID)", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Directory:    dir,
	})

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 5 * time.Second,
		// Sin WriteTimeout: el stream de /emergencies/watch se queda
		// abierto mientras el panel esté conectado.
		WriteTimeout: 0,
	}

	lg.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

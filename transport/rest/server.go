package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

func Start(logger *slog.Logger, port string, matches MatchUseCase) error {
	handlers := NewHandlers(logger, matches)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handlers.Ping)
	mux.HandleFunc("POST /match", handlers.CreateMatch)
	mux.HandleFunc("GET /match/{id}", handlers.GetMatch)
	mux.HandleFunc("POST /match/{id}/move", handlers.PlayMove)
	mux.HandleFunc("GET /match/{id}/replay", handlers.ReplayMatch)
	mux.HandleFunc("POST /match/{id}/branch", handlers.BranchMatch)
	mux.HandleFunc("DELETE /match/{id}", handlers.DeleteMatch)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

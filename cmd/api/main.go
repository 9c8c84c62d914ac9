package main

import (
	"net/http"
	"os"
	"time"

	"vet-records/internal/adapters/auth/jwtverify"
	"vet-records/internal/platform/logger"
	"vet-records/internal/ports/auth"
	"vet-records/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Sin secret => modo dev: headers X-Debug-User-ID / X-Debug-Role.
	var verifier auth.AuthVerifier
	if secret := os.Getenv("AUTH_JWT_SECRET"); secret != "" {
		verifier = jwtverify.New(jwtverify.Config{Secret: secret})
	} else {
		log.Warn("AUTH_JWT_SECRET not set, running in dev auth mode", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", logger.Err(err))
		os.Exit(1)
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/orchis-hq/orchis/pkg/app"
	"github.com/orchis-hq/orchis/pkg/config"
	"github.com/orchis-hq/orchis/pkg/logging"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	logger := logging.Init(cfg.LogLevel)

	// Note: On Vercel, a local sqlite file is ephemeral unless DATABASE_URL points at Turso
	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		panic(err)
	}
	mux = a.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}

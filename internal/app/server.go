package app

import (
	"github.com/gorilla/mux"

	"bookmark-manager/internal/handlers"
	"bookmark-manager/internal/server"
)

// RunServer builds the HTTP server with all handlers configured
func (app *App) RunServer() (*server.Server, *mux.Router) {
	var health handlers.HealthChecker
	if app.RedisClient != nil {
		health = app.RedisClient
	}
	h := handlers.New(app.Cache, health)

	router := mux.NewRouter()
	SetupRoutes(router, h, app.Registry, app.RateLimiter)

	return server.New(router, app.Config.Port), router
}

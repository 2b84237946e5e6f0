package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"friendchat/internal/config"
	"friendchat/internal/handlers"
	"friendchat/internal/hub"
	"friendchat/internal/relations"
	"friendchat/internal/storage"
	"friendchat/pkg/logger"
	"friendchat/pkg/middleware"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	// Durable identity registry and the friendship state machine, both owned
	// by the hub's event loop.
	store := storage.NewUserStore(cfg.UserDataFile)
	engine := relations.NewEngine()

	chatHub := hub.NewHub(store, engine)
	go chatHub.Run()

	wsHandler := handlers.NewWSHandler(chatHub)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	router.HandleFunc("/ws", wsHandler.ServeWS)
	router.HandleFunc("/healthz", handlers.HealthHandler).Methods("GET")

	// Serve the bundled web client
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("./public")))

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}

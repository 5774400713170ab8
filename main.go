package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"reelmatch_server/config"
	"reelmatch_server/routes"
	"reelmatch_server/services"
	"reelmatch_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize DynamoDB client and store adapter
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	tmdbService := services.NewTMDBService(cfg.TMDBAPIKey, cfg.TMDBBaseURL)
	deckService := &services.DeckService{TMDB: tmdbService}
	matchService := &services.MatchService{Dynamo: dynamoService, TMDB: tmdbService}
	smartMatchService := &services.SmartMatchService{TMDB: tmdbService}
	watchlistService := &services.WatchlistService{Dynamo: dynamoService}
	userService := &services.UserService{Dynamo: dynamoService}

	awsCfg, err := services.LoadAWSConfig(context.Background(), cfg.AWSRegion)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	backupService := services.NewBackupService(awsCfg, cfg.S3Bucket)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to ReelMatch")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterMovieRoutes(r, tmdbService)
	routes.RegisterMatchRoutes(r, matchService, deckService, smartMatchService)
	routes.RegisterWatchlistRoutes(r, watchlistService)
	routes.RegisterUserRoutes(r, userService)
	routes.RegisterBackupRoutes(r, backupService)

	// Socket server: one session runner per connected client
	socketServer := socket.NewSocketServer(socket.Deps{
		Matches: matchService,
		Decks:   deckService,
		Smart:   smartMatchService,
		Runner: services.SessionRunnerConfig{
			LifecycleInterval:   cfg.InvitePollInterval,
			ConvergenceInterval: cfg.MatchPollInterval,
			DeckBufferSize:      cfg.DeckBufferSize,
			QuestionnaireSize:   cfg.QuestionnaireSize,
		},
	})
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}

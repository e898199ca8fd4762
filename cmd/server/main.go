package main

import (
	"log"
	"net/http"
	"os"

	"listenalong/internal/db"
	"listenalong/internal/handlers"
	"listenalong/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer client.Close()

	h := handlers.New(client)
	rateLimiter := middleware.NewRateLimiterMiddleware(rate.Limit(1), 5)

	r := mux.NewRouter()
	r.Use(rateLimiter.Middleware)
	r.HandleFunc("/parties", h.CreateParty).Methods(http.MethodPost)
	r.HandleFunc("/parties", h.ListParties).Methods(http.MethodGet)
	r.HandleFunc("/parties.rss", h.GetPartiesRSS).Methods(http.MethodGet)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

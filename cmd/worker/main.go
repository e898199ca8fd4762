package main

import (
	"log"
	"os"

	"listenalong/internal/db"
	"listenalong/internal/worker"
	"listenalong/pkg/tasks"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
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

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			// Feed ingestions are independent of each other, so a handful
			// can run side by side. Podcast upserts stay safe under this
			// because of the unique index.
			Concurrency: 5,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(client)

	mux.HandleFunc(tasks.TypeProcessFeed, taskHandler.HandleProcessFeedTask)
	mux.HandleFunc(tasks.TypeDeactivateParties, taskHandler.HandleDeactivatePartiesTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"listenalong/pkg/tasks"
)

type Handlers struct {
	asynqClient tasks.TaskEnqueuer
}

func New(asynqClient tasks.TaskEnqueuer) *Handlers {
	return &Handlers{
		asynqClient: asynqClient,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

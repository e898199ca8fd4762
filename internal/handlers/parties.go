package handlers

import (
	"log"
	"net/http"
	"time"

	"listenalong/internal/db"
	"listenalong/internal/feed"
	"listenalong/pkg/tasks"
)

// CreateParty schedules a listening party. It creates an empty episode row
// and the party, then enqueues the feed ingestion job that fills both in.
func (h *Handlers) CreateParty(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	rssURL := r.FormValue("rss_url")
	if name == "" || rssURL == "" {
		http.Error(w, "name and rss_url are required", http.StatusBadRequest)
		return
	}

	startTime, err := time.Parse(time.RFC3339, r.FormValue("start_time"))
	if err != nil {
		http.Error(w, "start_time must be RFC3339", http.StatusBadRequest)
		return
	}

	episode, err := db.CreateEpisode()
	if err != nil {
		log.Printf("Error creating episode: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	party, err := db.CreateListeningParty(episode.ID, name, startTime)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	task, err := tasks.NewProcessFeedTask(rssURL, party.ID, episode.ID)
	if err != nil {
		log.Printf("Error creating process feed task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.asynqClient.Enqueue(task); err != nil {
		log.Printf("Error enqueuing process feed task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, party)
}

// ListParties returns the active parties with their episode and podcast.
func (h *Handlers) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := db.GetActiveParties()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, parties)
}

// GetPartiesRSS serves the public RSS feed of upcoming parties.
func (h *Handlers) GetPartiesRSS(w http.ResponseWriter, r *http.Request) {
	parties, err := db.GetActiveParties()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(parties, r)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}

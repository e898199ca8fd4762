package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"listenalong/internal/db"
	"listenalong/internal/feed"
	"listenalong/pkg/tasks"

	"github.com/hibiken/asynq"
)

type TaskHandler struct {
	asynqClient tasks.TaskEnqueuer
	httpClient  *http.Client
}

func NewTaskHandler(client tasks.TaskEnqueuer) *TaskHandler {
	return &TaskHandler{
		asynqClient: client,
		// Feed hosts can hang; cap the fetch so a stuck download doesn't
		// pin a worker slot.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// HandleProcessFeedTask ingests a podcast feed for a listening party: it
// fetches and parses the feed, works out the latest episode's duration,
// computes the party's end time, and persists the podcast, episode and party
// updates. Fetch/parse and persistence errors propagate to asynq for its
// retry policy; there is no rollback of earlier writes when a later one
// fails.
func (h *TaskHandler) HandleProcessFeedTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.ProcessFeedTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Processing feed %s for listening party %d", p.FeedURL, p.ListeningPartyID)

	party, err := db.GetListeningPartyByID(p.ListeningPartyID)
	if err != nil {
		return fmt.Errorf("failed to get listening party by id: %w", err)
	}

	body, err := feed.Fetch(ctx, h.httpClient, p.FeedURL)
	if err != nil {
		return err
	}

	parsed, err := feed.Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse feed %s: %w", p.FeedURL, err)
	}

	duration := feed.NormalizeDuration(parsed.RawDuration, p.FeedURL)
	endTime := party.StartTime.Add(duration)

	// The podcast must be resolved before the episode can be linked to it.
	podcast, err := db.UpsertPodcast(parsed.PodcastTitle, parsed.PodcastArtworkURL, p.FeedURL)
	if err != nil {
		return fmt.Errorf("failed to upsert podcast: %w", err)
	}

	if err := db.SetEpisodePodcast(p.EpisodeID, podcast.ID); err != nil {
		return fmt.Errorf("failed to link episode to podcast: %w", err)
	}

	if err := db.UpdateEpisodeDetails(p.EpisodeID, parsed.EpisodeTitle, parsed.EpisodeMediaURL); err != nil {
		return fmt.Errorf("failed to update episode details: %w", err)
	}

	if err := db.UpdateListeningPartyEndTime(p.ListeningPartyID, endTime); err != nil {
		return fmt.Errorf("failed to update listening party end time: %w", err)
	}

	log.Printf("Successfully processed feed %s, party %d ends at %s", p.FeedURL, p.ListeningPartyID, endTime.Format(time.RFC3339))

	return nil
}

// HandleDeactivatePartiesTask is the minute sweep that flips is_active off
// for parties whose end time has passed. A single conditional UPDATE keeps
// the sweep idempotent.
func (h *TaskHandler) HandleDeactivatePartiesTask(ctx context.Context, t *asynq.Task) error {
	count, err := db.DeactivateExpiredParties(time.Now())
	if err != nil {
		return fmt.Errorf("failed to deactivate expired parties: %w", err)
	}

	if count > 0 {
		log.Printf("Deactivated %d expired listening parties", count)
	}

	return nil
}

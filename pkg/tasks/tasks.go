package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeProcessFeed       = "feed:process"
	TypeDeactivateParties = "parties:deactivate"
)

type ProcessFeedTaskPayload struct {
	FeedURL          string
	ListeningPartyID int
	EpisodeID        int
}

func NewProcessFeedTask(feedURL string, listeningPartyID int, episodeID int) (*asynq.Task, error) {
	payload, err := json.Marshal(ProcessFeedTaskPayload{
		FeedURL:          feedURL,
		ListeningPartyID: listeningPartyID,
		EpisodeID:        episodeID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProcessFeed, payload), nil
}

func NewDeactivatePartiesTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeDeactivateParties, nil), nil
}

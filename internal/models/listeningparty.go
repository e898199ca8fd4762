package models

import "time"

// ListeningParty is a scheduled group listen of one episode. EndTime stays
// nil until the ingestion job has worked out the episode duration. IsActive
// flips to false exactly once, when the deactivation sweep observes that the
// end time has passed.
type ListeningParty struct {
	ID        int        `db:"id"`
	EpisodeID int        `db:"episode_id"`
	Name      string     `db:"name"`
	StartTime time.Time  `db:"start_time"`
	EndTime   *time.Time `db:"end_time"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
}

// ListeningPartyDetails joins a party with its episode and, through the
// episode, the podcast. The podcast relation is read-only and derived.
type ListeningPartyDetails struct {
	ListeningParty
	EpisodeTitle      *string `db:"episode_title"`
	EpisodeMediaURL   *string `db:"episode_media_url"`
	PodcastTitle      *string `db:"podcast_title"`
	PodcastArtworkURL *string `db:"podcast_artwork_url"`
}

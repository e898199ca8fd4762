package models

import "time"

// Episode rows are created empty when a listening party is scheduled and
// filled in by the feed ingestion job, which also links them to a podcast.
type Episode struct {
	ID        int       `db:"id"`
	PodcastID *int      `db:"podcast_id"`
	Title     *string   `db:"title"`
	MediaURL  *string   `db:"media_url"`
	CreatedAt time.Time `db:"created_at"`
}

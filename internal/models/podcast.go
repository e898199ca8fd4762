package models

import "time"

// Podcast is a feed-level record. It is matched on the (title, artwork_url,
// rss_url) composite key during ingestion, so the same feed can legitimately
// produce a new row if the publisher retitles the show.
type Podcast struct {
	ID         int       `db:"id"`
	Title      string    `db:"title"`
	ArtworkURL string    `db:"artwork_url"`
	RSSURL     string    `db:"rss_url"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

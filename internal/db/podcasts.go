package db

import (
	"log"

	"listenalong/internal/models"
)

// UpsertPodcast inserts a podcast or returns the existing row matching the
// natural key. The unique index on (title, artwork_url, rss_url) makes this
// atomic, so concurrent ingestions of the same feed resolve to one row.
func UpsertPodcast(title, artworkURL, rssURL string) (*models.Podcast, error) {
	query := `
		INSERT INTO podcasts (title, artwork_url, rss_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (title, artwork_url, rss_url) DO UPDATE SET
			updated_at = NOW()
		RETURNING id, title, artwork_url, rss_url, created_at, updated_at
	`
	podcast := &models.Podcast{}
	err := DB.Get(podcast, query, title, artworkURL, rssURL)
	if err != nil {
		log.Printf("Error upserting podcast %q: %v", title, err)
		return nil, err
	}
	return podcast, nil
}

// GetPodcastByID returns a single podcast row.
func GetPodcastByID(id int) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE id = $1", id)
	return podcast, err
}

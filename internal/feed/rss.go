package feed

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"
	"listenalong/internal/models"
)

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders the public feed of upcoming listening parties.
func GenerateRSS(parties []models.ListeningPartyDetails, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)

	p := podcast.New(
		"Upcoming Listening Parties",
		fmt.Sprintf("%s/parties.rss", baseURL),
		"Scheduled group listens of the latest podcast episodes.",
		&time.Time{}, &time.Time{},
	)

	for _, party := range parties {
		description := party.Name
		if party.PodcastTitle != nil && party.EpisodeTitle != nil {
			description = fmt.Sprintf("%s - %s: %s", party.Name, *party.PodcastTitle, *party.EpisodeTitle)
		}

		startTime := party.StartTime
		item := podcast.Item{
			Title:       party.Name,
			Description: description,
			PubDate:     &startTime,
			Link:        fmt.Sprintf("%s/parties/%d", baseURL, party.ID),
		}
		if party.EpisodeMediaURL != nil && *party.EpisodeMediaURL != "" {
			item.AddEnclosure(*party.EpisodeMediaURL, podcast.MP3, 0)
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}

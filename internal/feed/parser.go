package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/mmcdole/gofeed"
)

// ErrMalformedFeed indicates the document could not be parsed as a feed at
// all. Missing optional fields are not errors; they degrade to empty values.
var ErrMalformedFeed = errors.New("malformed feed")

// assumedBitrate is the standard podcast bitrate (bits/second) used to
// estimate a duration from the enclosure byte count when the feed does not
// declare one.
const assumedBitrate = 128000

// ParsedFeed holds the channel fields and the fields of the latest episode.
// "Latest" is positional: the first item in document order. Callers must
// supply a feed that is already ordered latest-first, which is how podcast
// feeds are published.
type ParsedFeed struct {
	PodcastTitle      string
	PodcastArtworkURL string
	EpisodeTitle      string
	EpisodeMediaURL   string
	// RawDuration is the iTunes duration string when the feed declares one,
	// otherwise a seconds estimate derived from the enclosure length. It
	// still needs to go through NormalizeDuration.
	RawDuration string
}

// Fetch retrieves the feed document at url. The caller owns the client and
// its timeout.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch feed: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	return body, nil
}

// Parse extracts the channel fields and the first item's fields from a feed
// document.
func Parse(data []byte) (*ParsedFeed, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("%w: feed has no items", ErrMalformedFeed)
	}

	out := &ParsedFeed{
		PodcastTitle: parsed.Title,
	}
	if parsed.Image != nil {
		out.PodcastArtworkURL = parsed.Image.URL
	} else if parsed.ITunesExt != nil {
		out.PodcastArtworkURL = parsed.ITunesExt.Image
	}

	latest := parsed.Items[0]
	out.EpisodeTitle = latest.Title

	var enclosureLength string
	if len(latest.Enclosures) > 0 {
		out.EpisodeMediaURL = latest.Enclosures[0].URL
		enclosureLength = latest.Enclosures[0].Length
	}

	// The iTunes duration tag wins when present; gofeed only populates
	// ITunesExt when the namespace is declared and used by the item.
	if latest.ITunesExt != nil {
		out.RawDuration = latest.ITunesExt.Duration
	}
	if out.RawDuration == "" {
		out.RawDuration = estimateDuration(enclosureLength)
	}

	return out, nil
}

// estimateDuration derives a seconds figure from the enclosure's declared
// byte count, assuming a 128 kbps encoding, rounded up.
func estimateDuration(enclosureLength string) string {
	size, err := strconv.ParseInt(enclosureLength, 10, 64)
	if err != nil || size < 0 {
		size = 0
	}
	seconds := (size*8 + assumedBitrate - 1) / assumedBitrate
	return strconv.FormatInt(seconds, 10)
}

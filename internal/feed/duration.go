package feed

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// DefaultDuration is substituted when a feed's duration string cannot be
// parsed. Podcast feeds get this field wrong often enough that failing the
// whole ingestion over it is not worth it.
const DefaultDuration = time.Hour

// NormalizeDuration converts a raw feed duration into an elapsed time. It
// accepts HH:MM:SS, MM:SS, or a plain seconds count. It never fails: any
// unparseable input is logged together with the feed URL and replaced by
// DefaultDuration.
func NormalizeDuration(raw string, feedURL string) time.Duration {
	seconds, err := parseDurationSeconds(raw)
	if err != nil {
		log.Printf("Error parsing episode duration %q for feed %s: %v, defaulting to 1 hour", raw, feedURL, err)
		return DefaultDuration
	}
	return time.Duration(seconds) * time.Second
}

func parseDurationSeconds(raw string) (int, error) {
	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		switch len(parts) {
		case 2:
			minutes, err := strconv.Atoi(parts[0])
			if err != nil {
				return 0, err
			}
			seconds, err := strconv.Atoi(parts[1])
			if err != nil {
				return 0, err
			}
			return minutes*60 + seconds, nil
		case 3:
			hours, err := strconv.Atoi(parts[0])
			if err != nil {
				return 0, err
			}
			minutes, err := strconv.Atoi(parts[1])
			if err != nil {
				return 0, err
			}
			seconds, err := strconv.Atoi(parts[2])
			if err != nil {
				return 0, err
			}
			return hours*3600 + minutes*60 + seconds, nil
		default:
			return 0, fmt.Errorf("unexpected duration format")
		}
	}

	return strconv.Atoi(raw)
}

package db

import (
	"log"
	"time"

	"listenalong/internal/models"
)

func CreateListeningParty(episodeID int, name string, startTime time.Time) (*models.ListeningParty, error) {
	query := `
		INSERT INTO listening_parties (episode_id, name, start_time)
		VALUES ($1, $2, $3)
		RETURNING id, episode_id, name, start_time, end_time, is_active, created_at
	`
	party := &models.ListeningParty{}
	err := DB.Get(party, query, episodeID, name, startTime)
	if err != nil {
		log.Printf("Error creating listening party %q: %v", name, err)
		return nil, err
	}
	return party, nil
}

func GetListeningPartyByID(id int) (models.ListeningParty, error) {
	party := models.ListeningParty{}
	err := DB.Get(&party, "SELECT * FROM listening_parties WHERE id = $1", id)
	return party, err
}

// UpdateListeningPartyEndTime sets the computed end time for a party.
func UpdateListeningPartyEndTime(id int, endTime time.Time) error {
	_, err := DB.Exec("UPDATE listening_parties SET end_time = $1 WHERE id = $2", endTime, id)
	return err
}

// DeactivateExpiredParties flips is_active off for every party whose end time
// has passed. The predicate makes the sweep idempotent, so overlapping or
// repeated runs are harmless. Returns the number of rows flipped.
func DeactivateExpiredParties(now time.Time) (int64, error) {
	result, err := DB.Exec("UPDATE listening_parties SET is_active = FALSE WHERE end_time <= $1 AND is_active = TRUE", now)
	if err != nil {
		log.Printf("Error deactivating expired parties: %v", err)
		return 0, err
	}
	return result.RowsAffected()
}

// GetActiveParties returns active parties joined with their episode and the
// episode's podcast, soonest start first.
func GetActiveParties() ([]models.ListeningPartyDetails, error) {
	query := `
		SELECT lp.id, lp.episode_id, lp.name, lp.start_time, lp.end_time, lp.is_active, lp.created_at,
			e.title AS episode_title, e.media_url AS episode_media_url,
			p.title AS podcast_title, p.artwork_url AS podcast_artwork_url
		FROM listening_parties lp
		JOIN episodes e ON e.id = lp.episode_id
		LEFT JOIN podcasts p ON p.id = e.podcast_id
		WHERE lp.is_active = TRUE
		ORDER BY lp.start_time ASC
	`
	var parties []models.ListeningPartyDetails
	err := DB.Select(&parties, query)
	if err != nil {
		log.Printf("Error getting active parties: %v", err)
		return nil, err
	}
	return parties, nil
}

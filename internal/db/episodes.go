package db

import (
	"listenalong/internal/models"
)

// CreateEpisode inserts an empty episode row. Title, media URL and the
// podcast link are filled in later by the ingestion job.
func CreateEpisode() (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "INSERT INTO episodes DEFAULT VALUES RETURNING *")
	return episode, err
}

func GetEpisodeByID(id int) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

// SetEpisodePodcast links an episode to its resolved podcast.
func SetEpisodePodcast(episodeID, podcastID int) error {
	_, err := DB.Exec("UPDATE episodes SET podcast_id = $1 WHERE id = $2", podcastID, episodeID)
	return err
}

// UpdateEpisodeDetails overwrites the episode's title and media URL with the
// freshly parsed feed values.
func UpdateEpisodeDetails(id int, title string, mediaURL string) error {
	_, err := DB.Exec("UPDATE episodes SET title = $1, media_url = $2 WHERE id = $3", title, mediaURL, id)
	return err
}

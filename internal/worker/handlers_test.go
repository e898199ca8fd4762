package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"listenalong/internal/feed"
	"listenalong/internal/test"
	"listenalong/pkg/tasks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Tech Banter</title>
    <link>https://example.com</link>
    <image>
      <url>https://example.com/artwork.png</url>
      <title>Tech Banter</title>
      <link>https://example.com</link>
    </image>
    <item>
      <title>Episode 42: The Answer</title>
      <enclosure url="https://example.com/ep42.mp3" length="52428800" type="audio/mpeg"/>
      <itunes:duration>1:02:03</itunes:duration>
    </item>
  </channel>
</rss>`

func newProcessFeedTask(t *testing.T, feedURL string, partyID, episodeID int) *asynq.Task {
	task, err := tasks.NewProcessFeedTask(feedURL, partyID, episodeID)
	require.NoError(t, err)
	return task
}

func TestHandleProcessFeedTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	startTime := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	partyRows := sqlmock.NewRows([]string{"id", "episode_id", "name", "start_time", "end_time", "is_active", "created_at"}).
		AddRow(5, 3, "Friday Listen", startTime, nil, true, startTime)
	mock.ExpectQuery(`SELECT \* FROM listening_parties WHERE id = \$1`).WithArgs(5).WillReturnRows(partyRows)

	now := time.Now()
	podcastRows := sqlmock.NewRows([]string{"id", "title", "artwork_url", "rss_url", "created_at", "updated_at"}).
		AddRow(7, "Tech Banter", "https://example.com/artwork.png", srv.URL, now, now)
	mock.ExpectQuery(`INSERT INTO podcasts`).
		WithArgs("Tech Banter", "https://example.com/artwork.png", srv.URL).
		WillReturnRows(podcastRows)

	mock.ExpectExec(`UPDATE episodes SET podcast_id = \$1 WHERE id = \$2`).
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(`UPDATE episodes SET title = \$1, media_url = \$2 WHERE id = \$3`).
		WithArgs("Episode 42: The Answer", "https://example.com/ep42.mp3", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// 1:02:03 normalizes to 3723 seconds, so the party must end exactly
	// that long after its start time.
	mock.ExpectExec(`UPDATE listening_parties SET end_time = \$1 WHERE id = \$2`).
		WithArgs(startTime.Add(3723*time.Second), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewTaskHandler(&test.MockTaskEnqueuer{})
	err := handler.HandleProcessFeedTask(context.Background(), newProcessFeedTask(t, srv.URL, 5, 3))
	assert.NoError(t, err)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestHandleProcessFeedTaskFetchFailure(t *testing.T) {
	_, mock := test.NewMockDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer srv.Close()

	startTime := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	partyRows := sqlmock.NewRows([]string{"id", "episode_id", "name", "start_time", "end_time", "is_active", "created_at"}).
		AddRow(5, 3, "Friday Listen", startTime, nil, true, startTime)
	mock.ExpectQuery(`SELECT \* FROM listening_parties WHERE id = \$1`).WithArgs(5).WillReturnRows(partyRows)

	handler := NewTaskHandler(&test.MockTaskEnqueuer{})
	err := handler.HandleProcessFeedTask(context.Background(), newProcessFeedTask(t, srv.URL, 5, 3))
	assert.Error(t, err)

	// No writes may happen when the fetch fails.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestHandleProcessFeedTaskMalformedFeed(t *testing.T) {
	_, mock := test.NewMockDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not xml"))
	}))
	defer srv.Close()

	startTime := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	partyRows := sqlmock.NewRows([]string{"id", "episode_id", "name", "start_time", "end_time", "is_active", "created_at"}).
		AddRow(5, 3, "Friday Listen", startTime, nil, true, startTime)
	mock.ExpectQuery(`SELECT \* FROM listening_parties WHERE id = \$1`).WithArgs(5).WillReturnRows(partyRows)

	handler := NewTaskHandler(&test.MockTaskEnqueuer{})
	err := handler.HandleProcessFeedTask(context.Background(), newProcessFeedTask(t, srv.URL, 5, 3))
	assert.ErrorIs(t, err, feed.ErrMalformedFeed)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestHandleProcessFeedTaskFallbackDuration(t *testing.T) {
	_, mock := test.NewMockDB(t)

	// A garbage duration must not fail the job; it defaults to one hour.
	badDurationFeed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Tech Banter</title>
    <link>https://example.com</link>
    <image>
      <url>https://example.com/artwork.png</url>
      <title>Tech Banter</title>
      <link>https://example.com</link>
    </image>
    <item>
      <title>Episode 42: The Answer</title>
      <enclosure url="https://example.com/ep42.mp3" length="52428800" type="audio/mpeg"/>
      <itunes:duration>abc</itunes:duration>
    </item>
  </channel>
</rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(badDurationFeed))
	}))
	defer srv.Close()

	startTime := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	partyRows := sqlmock.NewRows([]string{"id", "episode_id", "name", "start_time", "end_time", "is_active", "created_at"}).
		AddRow(5, 3, "Friday Listen", startTime, nil, true, startTime)
	mock.ExpectQuery(`SELECT \* FROM listening_parties WHERE id = \$1`).WithArgs(5).WillReturnRows(partyRows)

	now := time.Now()
	podcastRows := sqlmock.NewRows([]string{"id", "title", "artwork_url", "rss_url", "created_at", "updated_at"}).
		AddRow(7, "Tech Banter", "https://example.com/artwork.png", srv.URL, now, now)
	mock.ExpectQuery(`INSERT INTO podcasts`).
		WithArgs("Tech Banter", "https://example.com/artwork.png", srv.URL).
		WillReturnRows(podcastRows)

	mock.ExpectExec(`UPDATE episodes SET podcast_id = \$1 WHERE id = \$2`).
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE episodes SET title = \$1, media_url = \$2 WHERE id = \$3`).
		WithArgs("Episode 42: The Answer", "https://example.com/ep42.mp3", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE listening_parties SET end_time = \$1 WHERE id = \$2`).
		WithArgs(startTime.Add(time.Hour), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewTaskHandler(&test.MockTaskEnqueuer{})
	err := handler.HandleProcessFeedTask(context.Background(), newProcessFeedTask(t, srv.URL, 5, 3))
	assert.NoError(t, err)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestHandleDeactivatePartiesTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectExec(`UPDATE listening_parties SET is_active = FALSE WHERE end_time <= \$1 AND is_active = TRUE`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	handler := NewTaskHandler(&test.MockTaskEnqueuer{})
	task, err := tasks.NewDeactivatePartiesTask()
	require.NoError(t, err)

	err = handler.HandleDeactivatePartiesTask(context.Background(), task)
	assert.NoError(t, err)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// Re-running the sweep after everything is already deactivated is a no-op.
func TestHandleDeactivatePartiesTaskIdempotent(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectExec(`UPDATE listening_parties SET is_active = FALSE WHERE end_time <= \$1 AND is_active = TRUE`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	handler := NewTaskHandler(&test.MockTaskEnqueuer{})
	task, err := tasks.NewDeactivatePartiesTask()
	require.NoError(t, err)

	err = handler.HandleDeactivatePartiesTask(context.Background(), task)
	assert.NoError(t, err)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

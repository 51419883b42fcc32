package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pathfinder/pathfinder/internal/config"
	"github.com/pathfinder/pathfinder/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func publishedEvent() event.Event {
	return event.Event{
		Title:        "GopherCon EU",
		Description:  "Go conference",
		EventType:    "conference",
		Date:         event.Date{Start: "2024-06-17T09:00:00+02:00", End: "2024-06-20T18:00:00+02:00"},
		Mode:         "in-person",
		TechStack:    []string{"go"},
		Prizes:       event.Prizes{TotalPool: event.Unknown},
		Registration: event.Registration{URL: event.Unknown},
		SourceURL:    "https://gophercon.eu",
	}
}

func TestToGoogleEvent(t *testing.T) {
	t.Run("should map fields and normalise times to UTC", func(t *testing.T) {
		googleEvent, err := ToGoogleEvent(publishedEvent())

		require.NoError(t, err)
		assert.Equal(t, "GopherCon EU", googleEvent.Summary)
		assert.Equal(t, event.Details(publishedEvent()), googleEvent.Description)
		assert.Equal(t, "in-person", googleEvent.Location)
		assert.Equal(t, "2024-06-17T07:00:00Z", googleEvent.Start.DateTime)
		assert.Equal(t, "2024-06-20T16:00:00Z", googleEvent.End.DateTime)
		assert.Equal(t, "https://gophercon.eu", googleEvent.Source.Url)
	})

	t.Run("should fail on unparseable dates", func(t *testing.T) {
		e := publishedEvent()
		e.Date.End = "TBA"

		_, err := ToGoogleEvent(e)

		var dateErr *event.DateParseError
		assert.True(t, errors.As(err, &dateErr))
	})
}

func TestPublisher_Publish(t *testing.T) {
	var received gcal.Event
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"google-event-1"}`))
	}))
	defer server.Close()

	service, err := gcal.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	publisher := newPublisher(service, "team@example.com")

	id, err := publisher.Publish(context.Background(), publishedEvent())

	require.NoError(t, err)
	assert.Equal(t, "google-event-1", id)
	assert.Contains(t, path, "/calendars/team@example.com/events")
	assert.Equal(t, "GopherCon EU", received.Summary)
}

func TestNewPublisher_Disabled(t *testing.T) {
	publisher, err := NewPublisher(context.Background(), config.Google{})

	assert.NoError(t, err)
	assert.Nil(t, publisher)
}

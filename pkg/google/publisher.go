package google

import (
	"context"
	"fmt"
	"time"

	"github.com/pathfinder/pathfinder/internal/config"
	"github.com/pathfinder/pathfinder/pkg/event"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Publisher inserts catalog events into a Google Calendar on behalf of the
// account that issued the configured refresh token.
type Publisher struct {
	service    *gcal.Service
	calendarId string
}

// NewPublisher returns nil when the integration is not configured.
func NewPublisher(ctx context.Context, cfg config.Google) (*Publisher, error) {
	if !cfg.Enabled() {
		log.Info("Google Calendar publishing disabled: missing client credentials or refresh token")
		return nil, nil
	}
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarEventsScope},
	}
	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	service, err := gcal.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Calendar client: %w", err)
	}
	return newPublisher(service, cfg.CalendarId), nil
}

func newPublisher(service *gcal.Service, calendarId string) *Publisher {
	if calendarId == "" {
		calendarId = "primary"
	}
	return &Publisher{service: service, calendarId: calendarId}
}

// Publish creates the event and returns the id Google assigned to it.
func (p *Publisher) Publish(ctx context.Context, e event.Event) (string, error) {
	googleEvent, err := ToGoogleEvent(e)
	if err != nil {
		return "", err
	}
	created, err := p.service.Events.Insert(p.calendarId, googleEvent).Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to insert event in Google Calendar: %w", err)
		log.Error(err)
		return "", err
	}
	log.Debugf("Published %q to Google Calendar %s as %s", e.Title, p.calendarId, created.Id)
	return created.Id, nil
}

// ToGoogleEvent maps an event onto the Calendar API representation, using the
// same details block as the calendar links.
func ToGoogleEvent(e event.Event) (*gcal.Event, error) {
	start, end, err := event.ParseEventTimes(e)
	if err != nil {
		return nil, err
	}
	link := event.PrimaryLink(e)
	return &gcal.Event{
		Summary:     e.Title,
		Description: event.Details(e),
		Location:    e.Mode,
		Start: &gcal.EventDateTime{
			DateTime: start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &gcal.EventDateTime{
			DateTime: end.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		Source: &gcal.EventSource{
			Title: e.Title,
			Url:   link.URL,
		},
	}, nil
}

package catalog

import (
	"github.com/pathfinder/pathfinder/pkg/event"
)

func rawRecord(title, eventType, start string) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "About " + title,
		"event_type":  eventType,
		"date": map[string]any{
			"start": start,
			"end":   "2024-03-16T18:00:00Z",
		},
		"mode":         "online",
		"tech_stack":   []any{"go", "postgres", "htmx", "docker"},
		"prizes":       map[string]any{"total_pool": "unknown"},
		"registration": map[string]any{"url": "unknown"},
		"source_url":   "https://example.com/" + title,
	}
}

func testEvent(title, eventType string) event.Event {
	return event.Event{
		Title:        title,
		Description:  "About " + title,
		EventType:    eventType,
		Date:         event.Date{Start: "2024-03-15T10:00:00Z", End: "2024-03-16T18:00:00Z"},
		Mode:         "online",
		TechStack:    []string{"go"},
		Prizes:       event.Prizes{TotalPool: event.Unknown},
		Registration: event.Registration{URL: event.Unknown},
		SourceURL:    "https://example.com/" + title,
	}
}

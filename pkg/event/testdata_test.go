package event

func rawEvent() map[string]any {
	return map[string]any{
		"title":       "Global AI Hackathon",
		"description": "Build agents in 48 hours",
		"event_type":  "hackathon",
		"date": map[string]any{
			"start": "2024-03-15T10:00:00Z",
			"end":   "2024-03-16T18:00:00Z",
		},
		"mode":       "online",
		"tech_stack": []any{"python", "langchain"},
		"prizes": map[string]any{
			"total_pool": "$10,000",
		},
		"registration": map[string]any{
			"url": "https://example.com/register",
		},
		"source_url": "https://example.com/hackathon",
	}
}

func testEvent(title, eventType string) Event {
	return Event{
		Title:        title,
		Description:  "description of " + title,
		EventType:    eventType,
		Date:         Date{Start: "2024-03-15T10:00:00Z", End: "2024-03-16T18:00:00Z"},
		Mode:         "online",
		TechStack:    []string{"go"},
		Prizes:       Prizes{TotalPool: Unknown},
		Registration: Registration{URL: Unknown},
		SourceURL:    "https://example.com/" + title,
	}
}

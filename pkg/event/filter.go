package event

// AllTypes is the reserved selector that disables type filtering.
const AllTypes = "all"

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DistinctTypes returns every event_type present, each once, in first-seen order.
func DistinctTypes(events []Event) []string {
	seen := make(map[string]struct{}, len(events))
	types := make([]string, 0)
	for _, e := range events {
		if _, ok := seen[e.EventType]; ok {
			continue
		}
		seen[e.EventType] = struct{}{}
		types = append(types, e.EventType)
	}
	return types
}

// FilterByType returns the events whose type equals selected, keeping their
// relative order. AllTypes returns the input slice itself.
func FilterByType(events []Event, selected string) []Event {
	if selected == AllTypes {
		return events
	}
	filtered := make([]Event, 0)
	for _, e := range events {
		if e.EventType == selected {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// CountByType counts events per type, in first-seen type order.
func CountByType(events []Event) []TypeCount {
	index := make(map[string]int)
	counts := make([]TypeCount, 0)
	for _, e := range events {
		i, ok := index[e.EventType]
		if !ok {
			i = len(counts)
			index[e.EventType] = i
			counts = append(counts, TypeCount{Type: e.EventType})
		}
		counts[i].Count++
	}
	return counts
}

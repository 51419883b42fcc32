package event

import (
	"encoding/json"
	"fmt"
)

// SchemaError reports a raw record that does not match the event contract.
// Field is the dotted path of the offending value, empty when the record
// itself is malformed.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid event: %s", e.Reason)
	}
	return fmt.Sprintf("invalid event: field %q %s", e.Field, e.Reason)
}

// Decode parses a single JSON-encoded record and validates it.
func Decode(data []byte) (Event, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Event{}, &SchemaError{Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}
	return Validate(raw)
}

// Validate checks a decoded JSON value against the event contract and returns
// the typed event. Extra fields are ignored; sentinel values pass through as-is.
func Validate(raw any) (Event, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Event{}, &SchemaError{Reason: fmt.Sprintf("must be an object, got %s", typeName(raw))}
	}

	var e Event
	var err error

	if e.Title, err = requireString(obj, "", "title"); err != nil {
		return Event{}, err
	}
	if e.Title == "" {
		return Event{}, &SchemaError{Field: "title", Reason: "must not be empty"}
	}
	if e.Description, err = requireString(obj, "", "description"); err != nil {
		return Event{}, err
	}
	if e.EventType, err = requireString(obj, "", "event_type"); err != nil {
		return Event{}, err
	}

	date, err := requireObject(obj, "", "date")
	if err != nil {
		return Event{}, err
	}
	if e.Date.Start, err = requireString(date, "date", "start"); err != nil {
		return Event{}, err
	}
	if e.Date.End, err = requireString(date, "date", "end"); err != nil {
		return Event{}, err
	}

	if e.Mode, err = requireString(obj, "", "mode"); err != nil {
		return Event{}, err
	}
	if e.TechStack, err = requireStrings(obj, "tech_stack"); err != nil {
		return Event{}, err
	}

	prizes, err := requireObject(obj, "", "prizes")
	if err != nil {
		return Event{}, err
	}
	if e.Prizes.TotalPool, err = requireString(prizes, "prizes", "total_pool"); err != nil {
		return Event{}, err
	}

	registration, err := requireObject(obj, "", "registration")
	if err != nil {
		return Event{}, err
	}
	if e.Registration.URL, err = requireString(registration, "registration", "url"); err != nil {
		return Event{}, err
	}

	if e.SourceURL, err = requireString(obj, "", "source_url"); err != nil {
		return Event{}, err
	}

	return e, nil
}

// ValidateAll validates a batch of records. Invalid records are left out of
// the result and reported individually, so one bad record never hides the rest.
func ValidateAll(raws []any) ([]Event, []error) {
	events := make([]Event, 0, len(raws))
	var errs []error
	for i, raw := range raws {
		e, err := Validate(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		events = append(events, e)
	}
	return events, errs
}

func path(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

func requireString(obj map[string]any, parent, field string) (string, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return "", &SchemaError{Field: path(parent, field), Reason: "is required"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Field: path(parent, field), Reason: fmt.Sprintf("must be a string, got %s", typeName(v))}
	}
	return s, nil
}

func requireObject(obj map[string]any, parent, field string) (map[string]any, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil, &SchemaError{Field: path(parent, field), Reason: "is required"}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &SchemaError{Field: path(parent, field), Reason: fmt.Sprintf("must be an object, got %s", typeName(v))}
	}
	return m, nil
}

func requireStrings(obj map[string]any, field string) ([]string, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil, &SchemaError{Field: field, Reason: "is required"}
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &SchemaError{Field: field, Reason: fmt.Sprintf("must be an array, got %s", typeName(v))}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &SchemaError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: fmt.Sprintf("must be a string, got %s", typeName(item))}
		}
		out = append(out, s)
	}
	return out, nil
}

// typeName names JSON kinds the way a feed author would recognise them.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

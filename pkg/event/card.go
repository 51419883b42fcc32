package event

const (
	CategoryHackathon  = "hackathon"
	CategoryConference = "conference"
	CategoryOther      = "other"
)

const (
	LinkRegister = "register"
	LinkSource   = "source"
)

type Link struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// Category maps an open-set event type onto the categories clients know how to
// present. Unrecognised types fall back to CategoryOther.
func Category(eventType string) string {
	switch eventType {
	case CategoryHackathon, CategoryConference:
		return eventType
	default:
		return CategoryOther
	}
}

// PrimaryLink points at the registration page when there is one, otherwise at
// the page the event was found on.
func PrimaryLink(e Event) Link {
	if e.HasRegistration() {
		return Link{Kind: LinkRegister, URL: e.Registration.URL}
	}
	return Link{Kind: LinkSource, URL: e.SourceURL}
}

// TechPreview returns at most n tech tokens and how many were left out.
func TechPreview(e Event, n int) ([]string, int) {
	if n < 0 {
		n = 0
	}
	if len(e.TechStack) <= n {
		return e.TechStack, 0
	}
	return e.TechStack[:n], len(e.TechStack) - n
}

package event

import (
	"github.com/google/uuid"
)

// Unknown is the sentinel the feed uses in place of a missing datum.
const Unknown = "unknown"

var idNamespace = uuid.MustParse("5a0f3c1e-8d0b-4b1e-9a57-3f1a2d6c7e10")

type Event struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	EventType    string       `json:"event_type"`
	Date         Date         `json:"date"`
	Mode         string       `json:"mode"`
	TechStack    []string     `json:"tech_stack"`
	Prizes       Prizes       `json:"prizes"`
	Registration Registration `json:"registration"`
	SourceURL    string       `json:"source_url"`
}

// Date keeps the raw feed values; parsing happens where an instant is needed.
type Date struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Prizes struct {
	TotalPool string `json:"total_pool"`
}

type Registration struct {
	URL string `json:"url"`
}

// ID derives a stable identifier from the source URL, title and raw start date,
// so the same record keeps its id across refreshes.
func (e Event) ID() uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(e.SourceURL+"\x00"+e.Title+"\x00"+e.Date.Start))
}

func (e Event) HasPrizeInfo() bool {
	return e.Prizes.TotalPool != Unknown
}

func (e Event) HasRegistration() bool {
	return e.Registration.URL != Unknown
}

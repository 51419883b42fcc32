package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pathfinder/pathfinder/pkg/event"
	log "github.com/sirupsen/logrus"
)

const productId = "-//pathfinder//events//EN"

// Export renders events as an iCalendar feed. Events whose dates cannot be
// parsed are left out; the rest of the feed is still produced.
func Export(name string, events []event.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productId)
	if name != "" {
		cal.SetName(name)
	}

	for _, e := range events {
		start, end, err := event.ParseEventTimes(e)
		if err != nil {
			log.Debugf("Skipping %q in calendar export: %v", e.Title, err)
			continue
		}

		vevent := cal.AddEvent(e.ID().String() + "@pathfinder")
		vevent.SetDtStampTime(now.UTC())
		vevent.SetStartAt(start.UTC())
		vevent.SetEndAt(end.UTC())
		vevent.SetSummary(e.Title)
		vevent.SetDescription(event.Details(e))
		vevent.SetLocation(e.Mode)
		vevent.SetURL(event.PrimaryLink(e).URL)
		if e.EventType != "" {
			vevent.AddProperty(ical.ComponentPropertyCategories, e.EventType)
		}
	}

	return cal.Serialize()
}

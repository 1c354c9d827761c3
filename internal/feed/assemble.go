package feed

import (
	"strings"
	"time"

	"notioncal/internal/notion"
)

// DisplayColor is the fixed calendar-level COLOR value.
const DisplayColor = "136:115:80"

// Calendar owns the translated events of one feed generation, keyed by
// UID. It is built fresh per generation and discarded after serialization.
type Calendar struct {
	Name        string
	Description string
	URL         string
	Zone        *time.Location

	order  []string
	events map[string]Event
}

func NewCalendar(zone *time.Location) *Calendar {
	return &Calendar{
		Zone:   zone,
		events: make(map[string]Event),
	}
}

// Add inserts an event. A duplicate UID replaces the earlier event in
// place; source IDs are expected unique, so this is a safety net, not a
// merge strategy.
func (c *Calendar) Add(event Event) {
	if _, ok := c.events[event.UID]; !ok {
		c.order = append(c.order, event.UID)
	}
	c.events[event.UID] = event
}

// Events returns the events in insertion order.
func (c *Calendar) Events() []Event {
	events := make([]Event, 0, len(c.order))
	for _, uid := range c.order {
		events = append(events, c.events[uid])
	}
	return events
}

func (c *Calendar) Len() int {
	return len(c.order)
}

// Assemble translates every record and collects the non-skipped results
// into a calendar named after the database.
func Assemble(database notion.Database, records []notion.Record, zone *time.Location) (*Calendar, error) {
	calendar := NewCalendar(zone)
	calendar.Name = database.TitleText()
	if description := strings.TrimSpace(database.DescriptionText()); description != "" {
		calendar.Description = description
	}

	translator := Translator{Zone: zone}
	for _, record := range records {
		event, ok, err := translator.Translate(record)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		calendar.Add(event)
	}

	return calendar, nil
}

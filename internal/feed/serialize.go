package feed

import (
	"strings"

	ics "github.com/arran4/golang-ical"
)

const (
	productID       = "-//notioncal//notioncal//EN"
	refreshInterval = "P12H"
)

// Serialize renders the calendar as an iCalendar document. Standard fields
// are emitted first, then the fixed lists of calendar- and event-level
// extension lines, each emitter gated by its own presence check.
func (c *Calendar) Serialize() string {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetRefreshInterval(refreshInterval)

	for _, event := range c.Events() {
		calEvent := cal.AddEvent(event.UID)
		calEvent.SetSummary(event.Title)
		if event.Created != nil {
			calEvent.SetDtStampTime(*event.Created)
		} else {
			calEvent.SetDtStampTime(event.Begin)
		}
		if event.AllDay {
			calEvent.SetAllDayStartAt(event.Begin.In(c.Zone))
			calEvent.SetAllDayEndAt(event.End.In(c.Zone))
		} else {
			calEvent.SetStartAt(event.Begin)
			calEvent.SetEndAt(event.End)
		}
		if event.Status != "" {
			calEvent.SetStatus(ics.ObjectStatus(event.Status))
		}
		if len(event.Categories) > 0 {
			calEvent.SetProperty(ics.ComponentProperty(ics.PropertyCategories), strings.Join(event.Categories, ","))
		}
		if event.Description != "" {
			calEvent.SetDescription(escapeText(event.Description))
		}
		if event.Location != "" {
			calEvent.SetLocation(event.Location)
		}
		if event.URL != "" {
			calEvent.SetURL(event.URL)
		}
		if event.Created != nil {
			calEvent.SetCreatedTime(*event.Created)
		}
		if event.LastModified != nil {
			calEvent.SetModifiedAt(*event.LastModified)
		}
		for _, emit := range eventExtensions {
			emit(event, calEvent)
		}
	}

	for _, emit := range calendarExtensions {
		emit(c, cal)
	}

	return cal.Serialize()
}

// escapeText escapes line breaks per the iCalendar TEXT rules; the
// library folds long lines but leaves values as given.
func escapeText(s string) string {
	return strings.NewReplacer("\r\n", "\\n", "\n", "\\n").Replace(s)
}

// Calendar-level lines beyond the standard set. The URL line deliberately
// carries an empty value even when the calendar URL is set.
var calendarExtensions = []func(*Calendar, *ics.Calendar){
	func(c *Calendar, cal *ics.Calendar) {
		if c.URL != "" {
			cal.SetUrl("")
		}
	},
	func(c *Calendar, cal *ics.Calendar) {
		if c.Name != "" {
			cal.SetName(c.Name)
		}
	},
	func(c *Calendar, cal *ics.Calendar) {
		if c.Description != "" {
			cal.SetDescription(c.Description)
		}
	},
	func(c *Calendar, cal *ics.Calendar) {
		cal.SetTimezoneId(c.Zone.String())
	},
	func(c *Calendar, cal *ics.Calendar) {
		cal.SetColor(DisplayColor)
	},
}

var eventExtensions = []func(Event, *ics.VEvent){
	func(event Event, calEvent *ics.VEvent) {
		if event.Color != "" {
			calEvent.SetColor(event.Color)
		}
	},
}

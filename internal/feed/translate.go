package feed

import (
	"fmt"
	"strings"
	"time"

	"notioncal/internal/notion"
)

// Property names the feed reads from a record. The title property is looked
// up by type instead: a Notion database names its title property freely.
const (
	PropertyType     = "Type"
	PropertyTags     = "Tags"
	PropertyDate     = "Date"
	PropertyPage     = "Page"
	PropertyStatus   = "Status"
	PropertyLocation = "Location"
)

var statusByName = map[string]string{
	"Not going":      StatusCancelled,
	"Confirmed":      StatusConfirmed,
	"Need more info": StatusTentative,
}

// Translator maps one database record to at most one calendar event. It is
// a pure function of the record; translating the same record twice yields
// identical results.
type Translator struct {
	// Zone interprets date strings that carry no offset of their own, and
	// anchors all-day events.
	Zone *time.Location
}

// Translate converts a record into an event. Archived or trashed records,
// records without a title, and records without a date start are not
// events; they return ok false and no error. A date string that fails both
// parse attempts is an error.
func (tr Translator) Translate(record notion.Record) (Event, bool, error) {
	titleProperty, ok := record.TitleProperty()
	if !ok {
		return Event{}, false, nil
	}
	titleText, ok := titleProperty.TitleText()
	if !ok {
		return Event{}, false, nil
	}
	if record.Archived || record.InTrash {
		return Event{}, false, nil
	}
	dateProperty, ok := record.Property(PropertyDate)
	if !ok {
		return Event{}, false, nil
	}
	start, ok := dateProperty.DateStart()
	if !ok {
		return Event{}, false, nil
	}

	event := Event{
		UID: record.ID,
		URL: record.URL,
	}

	var title strings.Builder
	if typeProperty, ok := record.Property(PropertyType); ok {
		if name, ok := typeProperty.SelectName(); ok {
			name = strings.TrimSpace(name)
			title.WriteString("[" + name + "] ")
			event.Categories = append(event.Categories, name)
			if color, ok := typeProperty.SelectColor(); ok {
				event.Color = color
			}
		}
	}
	if emoji, ok := record.Emoji(); ok {
		title.WriteString(emoji + " ")
	}
	title.WriteString(strings.TrimSpace(titleText))
	event.Title = title.String()

	if tagsProperty, ok := record.Property(PropertyTags); ok {
		event.Categories = append(event.Categories, tagsProperty.MultiSelectNames()...)
	}

	if err := tr.translateDates(start, dateProperty, &event); err != nil {
		return Event{}, false, fmt.Errorf("record %s: %w", record.ID, err)
	}

	if pageProperty, ok := record.Property(PropertyPage); ok {
		if url, ok := pageProperty.URLValue(); ok {
			event.Description = url + "\r\n"
		}
	}

	if statusProperty, ok := record.Property(PropertyStatus); ok {
		if name, ok := statusProperty.StatusName(); ok {
			event.Status = statusByName[name]
		}
	}

	if locationProperty, ok := record.Property(PropertyLocation); ok {
		if text, ok := locationProperty.FirstRichText(); ok {
			event.Location = strings.TrimSpace(text)
		}
	}

	event.Created = record.CreatedTime
	event.LastModified = record.LastEditedTime

	return event, true, nil
}

// translateDates fills Begin, End and AllDay. A date-only start marks the
// event all-day, anchored at midnight in the feed zone. End is exclusive:
// date-only ends are floored to day start and advanced one day, a missing
// end is one day after begin for all-day events and begin itself for timed
// ones.
func (tr Translator) translateDates(start string, dateProperty notion.Property, event *Event) error {
	var err error

	if len(start) == allDayDateLength {
		event.AllDay = true
		event.Begin, err = parseNotionDate(start, tr.Zone)
	} else {
		event.Begin, err = parseNotionDateTime(start, tr.Zone)
	}
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	end, ok := dateProperty.DateEnd()
	switch {
	case !ok && event.AllDay:
		event.End = event.Begin.AddDate(0, 0, 1)
	case !ok:
		event.End = event.Begin
	case len(end) == allDayDateLength:
		event.End, err = parseNotionDate(end, tr.Zone)
		if err == nil {
			event.End = event.End.AddDate(0, 0, 1)
		}
	default:
		event.End, err = parseNotionDateTime(end, tr.Zone)
	}
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}

	// DTEND must not precede DTSTART
	if event.End.Before(event.Begin) {
		event.End = event.Begin
	}

	return nil
}

package notion

import (
	"strings"
	"time"
)

// Record is one page of a Notion database, as returned by the query
// endpoint. Any property may be absent, null, or empty; accessors return
// an explicit ok instead of assuming presence.
type Record struct {
	ID             string              `json:"id"`
	URL            string              `json:"url"`
	Archived       bool                `json:"archived"`
	InTrash        bool                `json:"in_trash"`
	CreatedTime    *time.Time          `json:"created_time"`
	LastEditedTime *time.Time          `json:"last_edited_time"`
	Icon           *Icon               `json:"icon"`
	Properties     map[string]Property `json:"properties"`
}

type Icon struct {
	Type  string  `json:"type"`
	Emoji *string `json:"emoji"`
}

// Property holds the per-type payloads the feed reads. Exactly one of the
// typed fields is populated, matching Type.
type Property struct {
	Type        string         `json:"type"`
	Title       []RichText     `json:"title"`
	RichText    []RichText     `json:"rich_text"`
	Select      *SelectOption  `json:"select"`
	MultiSelect []SelectOption `json:"multi_select"`
	Date        *DateRange     `json:"date"`
	Status      *SelectOption  `json:"status"`
	URL         *string        `json:"url"`
	Checkbox    *bool          `json:"checkbox"`
}

type RichText struct {
	PlainText string `json:"plain_text"`
}

type SelectOption struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DateRange keeps start and end as the raw strings Notion sent; a
// 10-character value is a date without a time.
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// Database is the metadata of a Notion database.
type Database struct {
	Title       []RichText `json:"title"`
	Description []RichText `json:"description"`
}

func (d Database) TitleText() string {
	return richTextToString(d.Title)
}

func (d Database) DescriptionText() string {
	return richTextToString(d.Description)
}

func (r Record) Property(name string) (Property, bool) {
	property, ok := r.Properties[name]
	return property, ok
}

// TitleProperty finds the title property by type. Notion lets a database
// name its title property anything, including the empty string.
func (r Record) TitleProperty() (Property, bool) {
	for _, property := range r.Properties {
		if property.Type == "title" {
			return property, true
		}
	}
	return Property{}, false
}

func (r Record) Emoji() (string, bool) {
	if r.Icon == nil || r.Icon.Type != "emoji" || r.Icon.Emoji == nil {
		return "", false
	}
	return *r.Icon.Emoji, true
}

func (p Property) TitleText() (string, bool) {
	if len(p.Title) == 0 {
		return "", false
	}
	return richTextToString(p.Title), true
}

func (p Property) FirstRichText() (string, bool) {
	if len(p.RichText) == 0 {
		return "", false
	}
	return p.RichText[0].PlainText, true
}

func (p Property) SelectName() (string, bool) {
	if p.Select == nil || p.Select.Name == "" {
		return "", false
	}
	return p.Select.Name, true
}

func (p Property) SelectColor() (string, bool) {
	if p.Select == nil || p.Select.Color == "" {
		return "", false
	}
	return p.Select.Color, true
}

func (p Property) MultiSelectNames() []string {
	names := make([]string, 0, len(p.MultiSelect))
	for _, option := range p.MultiSelect {
		names = append(names, option.Name)
	}
	return names
}

func (p Property) DateStart() (string, bool) {
	if p.Date == nil || p.Date.Start == nil || *p.Date.Start == "" {
		return "", false
	}
	return *p.Date.Start, true
}

func (p Property) DateEnd() (string, bool) {
	if p.Date == nil || p.Date.End == nil || *p.Date.End == "" {
		return "", false
	}
	return *p.Date.End, true
}

func (p Property) StatusName() (string, bool) {
	if p.Status == nil || p.Status.Name == "" {
		return "", false
	}
	return p.Status.Name, true
}

func (p Property) URLValue() (string, bool) {
	if p.URL == nil || *p.URL == "" {
		return "", false
	}
	return *p.URL, true
}

func (p Property) CheckboxValue() (bool, bool) {
	if p.Checkbox == nil {
		return false, false
	}
	return *p.Checkbox, true
}

func richTextToString(rt []RichText) string {
	var s []string
	for _, rts := range rt {
		s = append(s, rts.PlainText)
	}

	return strings.Join(s, "")
}

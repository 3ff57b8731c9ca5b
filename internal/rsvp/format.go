package rsvp

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var timestampLayouts = map[string]string{
	"en": "1/2/2006, 3:04:05 PM",
	"de": "2.1.2006, 15:04:05",
	"fr": "02/01/2006 15:04:05",
}

const defaultTimestampLayout = "2006-01-02 15:04:05"

// Formatter renders values for display only. Sorting never looks at its output.
type Formatter struct {
	printer  *message.Printer
	location *time.Location
	layout   string
}

// NewFormatter builds a Formatter for a BCP 47 locale such as "en-US". A nil location means UTC.
func NewFormatter(locale string, location *time.Location) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid display locale %q: %w", locale, err)
	}

	if location == nil {
		location = time.UTC
	}

	base, _ := tag.Base()
	layout, ok := timestampLayouts[base.String()]
	if !ok {
		layout = defaultTimestampLayout
	}

	return &Formatter{
		printer:  message.NewPrinter(tag),
		location: location,
		layout:   layout,
	}, nil
}

func (f *Formatter) Timestamp(t time.Time) string {
	return t.In(f.location).Format(f.layout)
}

// Count formats n with the locale's digit grouping.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

package engine

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MediumDateLayout renders days as "Jan 2, 2006".
const MediumDateLayout = "Jan 2, 2006"

// Formatter turns record fields into display strings.
type Formatter struct {
	printer  *message.Printer
	location *time.Location
	layout   string
}

func NewFormatter(tag language.Tag, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		location: loc,
		layout:   MediumDateLayout,
	}
}

func (f *Formatter) Date(t time.Time) string {
	return t.In(f.location).Format(f.layout)
}

// Count groups thousands according to the formatter's locale.
func (f *Formatter) Count(n int64) string {
	return f.printer.Sprintf("%d", n)
}

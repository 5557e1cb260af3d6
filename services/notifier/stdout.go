package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"nepremwatch/helpers"
	"nepremwatch/internal/scraper"
	"nepremwatch/pkg/errors"
)

// StdoutNotifier prints one line per listing to a console stream
type StdoutNotifier struct {
	out io.Writer
}

// NewStdout creates a notifier writing to out, or os.Stdout when nil
func NewStdout(out io.Writer) *StdoutNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &StdoutNotifier{out: out}
}

// Notify writes "title | price | location | url" per listing, leaving out
// empty price and location segments
func (n *StdoutNotifier) Notify(_ context.Context, listings []scraper.Listing) error {
	for _, l := range listings {
		line := helpers.JoinNonEmpty(scraper.FieldDelimiter, l.Title, l.PriceAmount, l.Location, l.URL)
		if _, err := fmt.Fprintln(n.out, line); err != nil {
			return errors.NewNotify("stdout", "failed to write notification", err)
		}
	}
	return nil
}

package reminder

import (
	"fmt"
	"io"
	"os"

	"github.com/gen2brain/beeep"
)

// Notifier delivers reminders.
type Notifier interface {
	Notify(r Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Reminder) error

// Notify calls f(r).
func (f NotifierFunc) Notify(r Reminder) error { return f(r) }

// Desktop sends native desktop notifications through beeep. When the
// platform has no notification service it falls back to writing the
// reminder to Fallback, or stderr when Fallback is nil.
type Desktop struct {
	Fallback io.Writer
}

// NewDesktop returns a Desktop notifier that identifies as appName.
func NewDesktop(appName string) *Desktop {
	if appName != "" {
		beeep.AppName = appName
	}
	return &Desktop{}
}

// Notify implements Notifier.
func (d *Desktop) Notify(r Reminder) error {
	if err := beeep.Notify(r.Title, r.Body, ""); err != nil {
		return Print(d.fallback(), r)
	}
	return nil
}

func (d *Desktop) fallback() io.Writer {
	if d.Fallback != nil {
		return d.Fallback
	}
	return os.Stderr
}

// Print writes a reminder as a single line.
func Print(w io.Writer, r Reminder) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", r.At.Format("15:04"), r.Title, r.Body)
	return err
}

// Writer returns a Notifier that prints reminders to w.
func Writer(w io.Writer) Notifier {
	return NotifierFunc(func(r Reminder) error { return Print(w, r) })
}

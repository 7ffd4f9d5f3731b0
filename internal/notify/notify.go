// Package notify turns session status transitions into desktop notifications.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/Tiliavir/sitelog/internal/schedule"
	"github.com/Tiliavir/sitelog/internal/session"
)

const appName = "sitelog"

// Message is one notification.
type Message struct {
	Title  string
	Body   string
	Urgent bool
}

// Desktop shows m through the platform notification service. Urgent
// messages also sound an alert.
func Desktop(m Message) error {
	if m.Urgent {
		return beeep.Alert(m.Title, m.Body, "")
	}
	return beeep.Notify(m.Title, m.Body, "")
}

// Transitions lists the notifications due for the step from prev to next:
// a period opening, an unsubmitted period entering its grace window and a
// period being missed. Snapshots of different report dates yield nothing.
func Transitions(prev, next session.Snapshot) []Message {
	if prev.Date != next.Date || len(prev.States) == 0 {
		return nil
	}

	var out []Message
	for _, st := range next.States {
		old, ok := prev.ByLabel(st.Period.Label)
		if !ok {
			continue
		}
		switch {
		case st.Status == session.StatusActive && old.Status != session.StatusActive:
			out = append(out, Message{
				Title: appName + ": " + st.Period.Label + " open",
				Body:  fmt.Sprintf("%s (%s) is open for reporting.", st.Period.Name, st.Period.Label),
			})
		case st.Status == session.StatusActive &&
			schedule.Classify(st.Period, prev.At).Open && !schedule.Classify(st.Period, next.At).Open:
			out = append(out, Message{
				Title:  appName + ": " + st.Period.Label + " closing",
				Body:   fmt.Sprintf("%s is not submitted yet. Reporting closes at %s.", st.Period.Label, schedule.GraceEnds(st.Period, next.At).Format("15:04")),
				Urgent: true,
			})
		case st.Status == session.StatusMissed && old.Status != session.StatusMissed:
			out = append(out, Message{
				Title:  appName + ": " + st.Period.Label + " missed",
				Body:   fmt.Sprintf("No report was submitted for %s.", st.Period.Label),
				Urgent: true,
			})
		}
	}
	return out
}

// Notifier forwards transitions to a send function.
type Notifier struct {
	send   func(Message) error
	logger *slog.Logger
}

// New creates a Notifier using send, or Desktop when send is nil.
func New(send func(Message) error, logger *slog.Logger) *Notifier {
	if send == nil {
		send = Desktop
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{send: send, logger: logger}
}

// Listener returns a session listener that sends every due notification.
// Delivery failures are logged and otherwise ignored.
func (n *Notifier) Listener() session.Listener {
	return func(prev, next session.Snapshot) {
		for _, m := range Transitions(prev, next) {
			if err := n.send(m); err != nil {
				n.logger.Warn("notification failed", "title", m.Title, "error", err)
			}
		}
	}
}

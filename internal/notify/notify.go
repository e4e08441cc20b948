package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     func(name string, args ...string) error
}

// NewNotifier creates a notifier. Disabled notifiers send nothing.
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Args builds the notify-send arguments for a notification
func Args(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "donelist")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if n == nil || !n.enabled {
		return nil
	}
	return n.run("notify-send", Args(notification)...)
}

// SendAllComplete announces that no pending task is left
func (n *Notifier) SendAllComplete(total int) error {
	return n.Send(Notification{
		Title:   "All tasks complete",
		Body:    fmt.Sprintf("%d of %d done", total, total),
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "emblem-ok-symbolic",
	})
}

// SendCleared reports how many completed tasks were removed
func (n *Notifier) SendCleared(removed int) error {
	if removed == 0 {
		return nil
	}
	return n.Send(Notification{
		Title:   "Completed tasks cleared",
		Body:    fmt.Sprintf("Removed %d task(s)", removed),
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
	})
}

// Package notify tells volunteers about committed assignments.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

// ErrNotConnected is returned when publishing on a closed notifier.
var ErrNotConnected = errors.New("notifier not connected")

// Message is one notification for one assigned person.
type Message struct {
	AssignmentID string    `json:"assignment_id"`
	ProposalID   string    `json:"proposal_id,omitempty"`
	PersonID     string    `json:"person_id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Village      string    `json:"village"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Text         string    `json:"text"`
}

// Notifier delivers messages.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
	Close() error
}

// Compose builds the message sent to one member of an assignment.
func Compose(p model.Person, a model.Assignment) Message {
	name := p.Name
	if name == "" {
		name = p.ID
	}
	village := a.Village
	if village == "" {
		village = "your area"
	}
	return Message{
		AssignmentID: a.ID,
		ProposalID:   a.ProposalID,
		PersonID:     p.ID,
		Name:         name,
		Title:        a.Title,
		Village:      a.Village,
		Start:        a.Start,
		End:          a.End,
		Text: fmt.Sprintf("Hello %s, you have been assigned to: '%s' in %s. Please check your dashboard for details.",
			name, a.Title, village),
	}
}

// LogNotifier writes notifications to the log instead of an SMS gateway.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.Named("notify")}
}

// Notify logs the message.
func (n *LogNotifier) Notify(ctx context.Context, m Message) error {
	n.log.Info(ctx, "notification",
		logger.String("assignment_id", m.AssignmentID),
		logger.String("person_id", m.PersonID),
		logger.String("text", m.Text),
	)
	return nil
}

// Close is a no-op.
func (n *LogNotifier) Close() error { return nil }

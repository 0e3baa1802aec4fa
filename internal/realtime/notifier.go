package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventProposalCreated   = "proposal.created"
	EventProposalAccepted  = "proposal.accepted"
	EventProposalRejected  = "proposal.rejected"
	EventProposalCancelled = "proposal.cancelled"
	EventTaskStarted       = "task.started"
	EventTaskCompleted     = "task.completed"
	EventTaskCancelled     = "task.cancelled"
	EventReviewCreated     = "review.created"
)

type Event struct {
	Type       string     `json:"type"`
	TaskID     uuid.UUID  `json:"taskId"`
	ProposalID *uuid.UUID `json:"proposalId,omitempty"`
	ReviewID   *uuid.UUID `json:"reviewId,omitempty"`
	Message    string     `json:"message,omitempty"`
	At         time.Time  `json:"at"`
}

func (e Event) Marshal() ([]byte, error) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return json.Marshal(e)
}

// Notifier pushes lifecycle events to a user. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, ev Event)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, uuid.UUID, Event) {}

// LocalNotifier delivers straight to the in-process hub.
type LocalNotifier struct {
	Hub *Hub
}

func (n LocalNotifier) Notify(_ context.Context, userID uuid.UUID, ev Event) {
	payload, err := ev.Marshal()
	if err != nil {
		return
	}
	n.Hub.SendToUser(userID, payload)
}

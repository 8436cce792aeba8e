package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActorRef identifies the dealer user who produced the event.
type ActorRef struct {
	DealerUserID    uuid.UUID `json:"dealerUserId"`
	DealerAccountID uuid.UUID `json:"dealerAccountId"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
// Downstream consumers key off Version before decoding Data.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

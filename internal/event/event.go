// Package event holds the lifecycle events published on each state
// transition of the simulation records.
package event

import (
	"encoding/json"

	"github.com/ssisim/agent-sim-platform/internal/pubsub"
)

// Topics for lifecycle events
const (
	TopicConnectionCreated     = "connection-created"
	TopicConnectionEstablished = "connection-established"
	TopicCredentialIssued      = "credential-issued"
	TopicCredentialAccepted    = "credential-accepted"
	TopicProofRequested        = "proof-requested"
	TopicProofPresented        = "proof-presented"
)

// Lifecycle is the payload published on every record state transition.
type Lifecycle struct {
	RecordID     string `json:"recordId"`
	ConnectionID string `json:"connectionId,omitempty"`
	Status       string `json:"status"`
}

// Marshal satisfies the pubsub.Event interface
func (e *Lifecycle) Marshal() (pubsub.Message, error) {
	return json.Marshal(e)
}

// Unmarshal satisfies the pubsub.Event interface
func (e *Lifecycle) Unmarshal(msg pubsub.Message) error {
	return json.Unmarshal(msg, e)
}

package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSyncMessage tells the worker that a record or charge changed.
// It carries only the coordinates of the change; the worker re-reads the
// current state from the store, so stale or duplicated deliveries are safe.
type LedgerSyncMessage struct {
	Collection string    `json:"collection"`
	RecordID   string    `json:"record_id"`
	Op         string    `json:"op"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

func NewLedgerSyncMessage(collection, recordID, op string) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		Collection: collection,
		RecordID:   recordID,
		Op:         op,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

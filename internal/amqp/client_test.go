package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerSyncMessage(t *testing.T) {
	msg := NewLedgerSyncMessage("receivables", "rec-1", OpUpsert)

	if msg.Collection != "receivables" {
		t.Errorf("NewLedgerSyncMessage() Collection = %v, want receivables", msg.Collection)
	}
	if msg.RecordID != "rec-1" {
		t.Errorf("NewLedgerSyncMessage() RecordID = %v, want rec-1", msg.RecordID)
	}
	if msg.Op != OpUpsert {
		t.Errorf("NewLedgerSyncMessage() Op = %v, want %v", msg.Op, OpUpsert)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewLedgerSyncMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewLedgerSyncMessage() Timestamp should be recent")
	}
}

func TestLedgerSyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerSyncMessage{
		Collection: "liabilities",
		RecordID:   "rec-42",
		Op:         OpDelete,
		Timestamp:  timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := LedgerSyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("LedgerSyncMessageFromJSON() error = %v", err)
	}

	if parsedMsg.Collection != msg.Collection {
		t.Errorf("Parsed Collection = %v, want %v", parsedMsg.Collection, msg.Collection)
	}
	if parsedMsg.RecordID != msg.RecordID {
		t.Errorf("Parsed RecordID = %v, want %v", parsedMsg.RecordID, msg.RecordID)
	}
	if parsedMsg.Op != msg.Op {
		t.Errorf("Parsed Op = %v, want %v", parsedMsg.Op, msg.Op)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestLedgerSyncMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"collection": 7, "record_id": true}`)

	if _, err := LedgerSyncMessageFromJSON(invalidJSON); err == nil {
		t.Error("LedgerSyncMessageFromJSON() should fail with invalid JSON")
	}
}

package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage tells downstream consumers that a transaction changed.
// It carries only identifiers; consumers fetch the full record themselves.
type LedgerEventMessage struct {
	TransactionID int64     `json:"transactionId"`
	UserID        int64     `json:"userId"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(transactionID, userID int64, action string) *LedgerEventMessage {
	return &LedgerEventMessage{
		TransactionID: transactionID,
		UserID:        userID,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package events

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
)

// EventType names what happened to a voucher.
type EventType string

const (
	VoucherCreated EventType = "voucher.created"
	VoucherDeleted EventType = "voucher.deleted"
)

// VoucherEvent is the message published when a voucher book changes.
// Consumers reload what they need from the store; only identifiers travel.
type VoucherEvent struct {
	Type      EventType   `json:"type"`
	Book      domain.Book `json:"book"`
	VoucherID string      `json:"voucherId"`
	SlipNo    int64       `json:"slipNo,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewVoucherEvent stamps a new event with the current time.
func NewVoucherEvent(t EventType, book domain.Book, voucherID string, slipNo int64) *VoucherEvent {
	return &VoucherEvent{
		Type:      t,
		Book:      book,
		VoucherID: voucherID,
		SlipNo:    slipNo,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (e *VoucherEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// VoucherEventFromJSON decodes a message body.
func VoucherEventFromJSON(data []byte) (*VoucherEvent, error) {
	var evt VoucherEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

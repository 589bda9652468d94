package punch

import (
	"time"
)

// MovementType is the direction of a biometric punch. Devices do not always
// report it, so Unknown is a legal value resolved later by position parity.
type MovementType string

const (
	MovementEntry   MovementType = "ENTRY"
	MovementExit    MovementType = "EXIT"
	MovementUnknown MovementType = "UNKNOWN"
)

// Event is one biometric scan as delivered by the device ingestion side.
// The reconciliation engine only ever reads events; it marks them processed
// once they are folded into an attendance record.
type Event struct {
	ID         string
	EmployeeID string
	DeviceID   string
	Timestamp  time.Time
	Movement   MovementType
	Confidence float64
	Processed  bool
	RecordID   *string
	CreatedAt  time.Time
}

// Date returns the working day the event belongs to.
func (e Event) Date() time.Time {
	return time.Date(e.Timestamp.Year(), e.Timestamp.Month(), e.Timestamp.Day(), 0, 0, 0, 0, e.Timestamp.Location())
}

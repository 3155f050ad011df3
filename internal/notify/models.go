package notify

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted user/security-facing message. Two
// notifications with identical (message, type, priority) are never created
// within the dedup window.
type Notification struct {
	ID        uuid.UUID
	Message   string
	Type      string
	Priority  string
	Status    string
	VehicleID *uuid.UUID
	PlazaID   string
	Timestamp time.Time
}

const (
	StatusUnread = "unread"

	// DedupWindow is the lookback used to suppress duplicates.
	DedupWindow = 24 * time.Hour
)

// Notification types raised by the decision path. The enriched subset gets a
// vehicle summary appended; LOW_BALANCE gets a payment link instead.
const (
	TypeUnknownTag     = "UNKNOWN_TAG"
	TypeLicenseMissing = "LICENSE_MISSING"
	TypeUnmatchedPlate = "UNMATCHED_PLATE"
	TypeTagMissing     = "TAG_MISSING"
	TypeLowBalance     = "LOW_BALANCE"
)

// DedupHash keys content-based deduplication. It covers exactly the triple
// the dedup rule is defined over.
func DedupHash(message, typ, priority string) string {
	h := sha256.Sum256([]byte(message + "\x00" + typ + "\x00" + priority))
	return hex.EncodeToString(h[:])
}

// Package slot derives concrete training occurrences from weekly templates
// and per-date overrides.
package slot

import (
	"fmt"
	"time"

	"dojoroster/internal/domain/period"
)

// SentinelTemplateID is the template identity carried by extra and event slots.
const SentinelTemplateID int64 = -1

// DefaultStartTime is used for standalone overrides stored without a start.
const DefaultStartTime = "00:00"

// Slot is one resolved training occurrence.
type Slot struct {
	Date       time.Time
	Weekday    time.Weekday
	TimeStart  string
	TimeEnd    string
	TemplateID int64  // SentinelTemplateID for extra and event slots
	OverrideID *int64 // set for cancelled, extra and event slots
	Cancelled  bool
	Extra      bool
	Event      bool
	Reason     string
}

// KeyKind discriminates the identity space of a slot.
type KeyKind uint8

const (
	KeyRegular KeyKind = iota + 1
	KeyExtra
)

func (k KeyKind) String() string {
	switch k {
	case KeyRegular:
		return "regular"
	case KeyExtra:
		return "extra"
	default:
		return "unknown"
	}
}

// Key identifies the roster a slot owns. Regular slots are keyed by
// template id and extra slots by override id; the two id spaces never mix.
type Key struct {
	Kind KeyKind
	ID   int64
}

// String formats the key as "regular:<id>" or "extra:<id>".
func (k Key) String() string { return fmt.Sprintf("%s:%d", k.Kind, k.ID) }

// ParseKeyKind parses "regular" or "extra".
func ParseKeyKind(s string) (KeyKind, bool) {
	switch s {
	case "regular":
		return KeyRegular, true
	case "extra":
		return KeyExtra, true
	default:
		return 0, false
	}
}

// RegularKey returns the key for a template occurrence.
func RegularKey(templateID int64) Key { return Key{Kind: KeyRegular, ID: templateID} }

// ExtraKey returns the key for an extra or event slot.
func ExtraKey(overrideID int64) Key { return Key{Kind: KeyExtra, ID: overrideID} }

// Key returns the slot's roster key.
// INVARIANT: branches on Extra first, never on which id happens to be set
func (s Slot) Key() Key {
	if s.Extra {
		var id int64
		if s.OverrideID != nil {
			id = *s.OverrideID
		}
		return ExtraKey(id)
	}
	return RegularKey(s.TemplateID)
}

// TakesSignUps reports whether trainers can sign up for the slot.
func (s Slot) TakesSignUps() bool {
	return !s.Cancelled && !s.Event
}

// DateString formats the slot date as YYYY-MM-DD.
func (s Slot) DateString() string { return period.FormatDate(s.Date) }

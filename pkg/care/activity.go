package care

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Activity string

const (
	Watering      Activity = "watering"
	Pruning       Activity = "pruning"
	Fertilization Activity = "fertilization"
)

var ErrUnknownActivity = errors.New("unknown care activity")

func Activities() []Activity { return []Activity{Watering, Pruning, Fertilization} }

func ParseActivity(s string) (Activity, error) {
	switch a := Activity(strings.ToLower(strings.TrimSpace(s))); a {
	case Watering, Pruning, Fertilization:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownActivity, s)
}

// Entry is the tracked state of one activity on one crop.
type Entry struct {
	Activity Activity   `json:"activity"`
	Schedule string     `json:"schedule"`
	Last     *time.Time `json:"last,omitempty"`
	Next     *time.Time `json:"next,omitempty"`
}

// Log performs the only transition an entry has: it was done today.
// The receiver is left untouched; the updated entry is returned.
func (e Entry) Log(today time.Time) (Entry, error) {
	next, err := NextDue(e.Schedule, today)
	if err != nil {
		return e, err
	}
	d := DateOnly(today)
	e.Last = &d
	e.Next = next
	return e, nil
}

// SameAs reports whether two entries hold the same calendar dates.
func (e Entry) SameAs(o Entry) bool {
	return sameDate(e.Last, o.Last) && sameDate(e.Next, o.Next)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return DateOnly(*a).Equal(DateOnly(*b))
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

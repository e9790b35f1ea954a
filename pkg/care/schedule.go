// Package care holds the crop-care calendar rules: recurrence phrases, due-date
// arithmetic, growth stages and the per-activity logging transition.
package care

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

type Kind int

const (
	KindInterval Kind = iota + 1
	KindNever
)

// MaxInterval bounds "Every N <unit>" so a typo cannot push a due date decades out.
const MaxInterval = 365

var ErrUnknownSchedule = errors.New("unknown schedule")

// Recurrence is a parsed schedule phrase. The zero value is invalid; use
// ParseSchedule, Every or Never.
type Recurrence struct {
	Kind     Kind
	Interval int
	Unit     Unit
}

var Never = Recurrence{Kind: KindNever}

func Every(n int, u Unit) Recurrence { return Recurrence{Kind: KindInterval, Interval: n, Unit: u} }

var (
	everyRX = regexp.MustCompile(`^every(?: (\d+))? (day|week|month)(s?)$`)
	// compactRX matches the dashboard's form values such as "2days" and "3days".
	compactRX = regexp.MustCompile(`^(\d+) ?(day|week|month)s?$`)
)

var keywords = map[string]Recurrence{
	"never":    Never,
	"daily":    Every(1, UnitDay),
	"weekly":   Every(1, UnitWeek),
	"monthly":  Every(1, UnitMonth),
	"biweekly": Every(2, UnitWeek),
}

func interval(raw, phrase string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > MaxInterval {
		return 0, fmt.Errorf("%w: interval out of range in %q", ErrUnknownSchedule, phrase)
	}
	return v, nil
}

// ParseSchedule accepts Never, Daily, Weekly, Biweekly, Monthly, "Every <unit>",
// "Every N <unit>s" and the compact "N<unit>s". Anything else is ErrUnknownSchedule.
func ParseSchedule(s string) (Recurrence, error) {
	norm := strings.ToLower(strings.Join(strings.Fields(s), " "))
	if r, ok := keywords[norm]; ok {
		return r, nil
	}
	if m := compactRX.FindStringSubmatch(norm); m != nil {
		n, err := interval(m[1], s)
		if err != nil {
			return Recurrence{}, err
		}
		return Every(n, Unit(m[2])), nil
	}
	m := everyRX.FindStringSubmatch(norm)
	if m == nil {
		return Recurrence{}, fmt.Errorf("%w: %q", ErrUnknownSchedule, s)
	}
	n := 1
	if m[1] != "" {
		v, err := interval(m[1], s)
		if err != nil {
			return Recurrence{}, err
		}
		n = v
	} else if m[3] != "" {
		// "every days" reads as a typo, not as a phrase
		return Recurrence{}, fmt.Errorf("%w: %q", ErrUnknownSchedule, s)
	}
	return Every(n, Unit(m[2])), nil
}

func (r Recurrence) IsNever() bool { return r.Kind == KindNever }

func (r Recurrence) Valid() bool {
	switch r.Kind {
	case KindNever:
		return true
	case KindInterval:
		return r.Interval >= 1 && r.Interval <= MaxInterval &&
			(r.Unit == UnitDay || r.Unit == UnitWeek || r.Unit == UnitMonth)
	}
	return false
}

// String renders the canonical phrase that is stored on crops.
func (r Recurrence) String() string {
	switch {
	case r.Kind == KindNever:
		return "Never"
	case r.Kind != KindInterval:
		return ""
	case r.Interval == 1:
		switch r.Unit {
		case UnitDay:
			return "Daily"
		case UnitWeek:
			return "Weekly"
		case UnitMonth:
			return "Monthly"
		}
	}
	return fmt.Sprintf("Every %d %ss", r.Interval, r.Unit)
}

// Canonical parses s and returns its stored spelling. Blank input stays blank.
func Canonical(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	r, err := ParseSchedule(s)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

package exercise

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one tracked exercise. Values are stored as-is in the
// entries table.
type Kind string

const (
	Pushups Kind = "pushups"
	Plank   Kind = "plank"
)

var (
	ErrInvalidValue = errors.New("invalid exercise value")
	ErrUnknownKind  = errors.New("unknown exercise kind")
)

// rules carries the per-kind value handling: how raw chat text becomes a
// stored integer and how a stored integer is shown back to the user.
type rules struct {
	title   string
	hint    string
	aliases []string
	parse   func(string) (int, error)
	format  func(int) string
}

// Adding an exercise means adding one registry row and one kindOrder element.
var registry = map[Kind]rules{
	Pushups: {
		title:   "push-ups",
		hint:    "25",
		aliases: []string{"pushups", "push-ups"},
		parse:   parseCount,
		format:  strconv.Itoa,
	},
	Plank: {
		title:   "plank",
		hint:    "1:30",
		aliases: []string{"plank"},
		parse:   parseDuration,
		format:  FormatDuration,
	},
}

// kindOrder fixes the order kinds appear in reports and reminders.
var kindOrder = []Kind{Pushups, Plank}

func Kinds() []Kind {
	return append([]Kind(nil), kindOrder...)
}

func Known(k Kind) bool {
	_, ok := registry[k]
	return ok
}

// KindByName resolves a chat token ("plank", "push-ups") to a kind.
func KindByName(name string) (Kind, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, k := range kindOrder {
		for _, a := range registry[k].aliases {
			if a == n {
				return k, true
			}
		}
	}
	return "", false
}

// Title returns the human name of the kind, falling back to the raw value
// for kinds that slipped past validation.
func Title(k Kind) string {
	if r, ok := registry[k]; ok {
		return r.title
	}
	return string(k)
}

// Hint is an example of valid input, used in correction prompts.
func Hint(k Kind) string {
	if r, ok := registry[k]; ok {
		return r.hint
	}
	return "25"
}

// Parse turns raw chat text into a positive stored value for the kind.
func Parse(k Kind, raw string) (int, error) {
	r, ok := registry[k]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return r.parse(raw)
}

// Format renders a stored value for display: plain integer for count kinds,
// m:ss for duration kinds.
func Format(k Kind, v int) string {
	if r, ok := registry[k]; ok {
		return r.format(v)
	}
	return strconv.Itoa(v)
}

// parseCount pulls the digits out of free text, so "did 30" logs 30.
func parseCount(raw string) (int, error) {
	var digits strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return n, nil
}

func parseDuration(raw string) (int, error) {
	sec, err := ToSeconds(raw)
	if err != nil {
		return 0, err
	}
	if sec <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return sec, nil
}

// ToSeconds parses a duration given as "m:ss" into seconds. A bare integer
// is accepted as already-seconds for compatibility with plain-count input.
func ToSeconds(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, ":") {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
		}
		return n, nil
	}
	parts := strings.SplitN(s, ":", 2)
	mm, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || mm < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	ss, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || ss < 0 || ss > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return mm*60 + ss, nil
}

// FormatDuration renders seconds as m:ss with the seconds zero-padded,
// the inverse of ToSeconds.
func FormatDuration(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

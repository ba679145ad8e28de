package sanitizer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

const (
	MaxDisplayNameRunes = 50
	MaxDescriptionRunes = 500
)

// TrimAndNormalize trims and collapses every whitespace run to one space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		result.WriteRune(r)
		lastWasSpace = false
	}
	return result.String()
}

// StripControl drops control and format characters (including zero width
// joiners used to spoof names) but keeps whitespace for TrimAndNormalize.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return r
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

func Truncate(max int) Strategy {
	return func(s string) string {
		if utf8.RuneCountInString(s) <= max {
			return s
		}
		return strings.TrimSpace(string([]rune(s)[:max]))
	}
}

func SanitizeDisplayName(input string) string {
	return Pipeline{StripControl, TrimAndNormalize, Truncate(MaxDisplayNameRunes)}.Apply(input)
}

func SanitizeDescription(input string) string {
	return Pipeline{StripControl, TrimAndNormalize, Truncate(MaxDescriptionRunes)}.Apply(input)
}

// SanitizeIdentifier is used for room and user keys: trimmed, lower-case.
func SanitizeIdentifier(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// SanitizeSlice applies strategy to each value and drops empties. Order and
// duplicates are kept.
func SanitizeSlice(values []string, strategy Strategy) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strategy(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SanitizeSlots trims slot start times and sorts them ascending, so booking
// records come back in time order whatever order the client sent. Repeated
// slots are kept for the validator to reject.
func SanitizeSlots(slots []string) []string {
	out := SanitizeSlice(slots, strings.TrimSpace)
	sort.Strings(out)
	return out
}

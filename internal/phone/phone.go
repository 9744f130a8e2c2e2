// Package phone normalizes free-form phone input into an E.164-like form.
//
// Country-code insertion is a per-campaign policy: the heuristics here are
// region-biased and will misread other countries' local formats, so the
// region is passed in explicitly rather than assumed.
package phone

import (
	"strings"
)

// MinDialableLength is the minimum length of a normalized number that is
// considered dialable. Shorter values are dropped by the contact resolver,
// never treated as errors.
const MinDialableLength = 10

// Normalize cleans raw phone input and applies region-specific country-code
// insertion. Values already carrying a leading "+" pass through untouched
// (after separator stripping).
func Normalize(raw, region string) string {
	v := clean(raw)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "+") {
		return v
	}

	switch strings.ToUpper(region) {
	case "GB", "UK":
		return normalizeGB(v)
	default:
		// No heuristic for this region; leave the digits bare. Callers
		// that require a dialable number will drop short values.
		return v
	}
}

// normalizeGB applies the UK numbering heuristic:
//   - "44..."          -> "+44..."
//   - "0..."           -> "+44" + rest (national format)
//   - 10 digits "4..."  -> "+44" + value (mobile missing the leading zero)
func normalizeGB(v string) string {
	switch {
	case strings.HasPrefix(v, "44"):
		return "+" + v
	case strings.HasPrefix(v, "0"):
		return "+44" + v[1:]
	case len(v) == 10 && strings.HasPrefix(v, "4"):
		return "+44" + v
	default:
		return v
	}
}

// Dialable reports whether a normalized value is long enough to dial.
func Dialable(normalized string) bool {
	return len(normalized) >= MinDialableLength
}

// ForDial coerces a number into the form handed to the telephony provider:
// a leading "+" is prefixed if absent.
func ForDial(number string) string {
	v := clean(number)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "+") {
		return v
	}
	return "+" + v
}

// CoerceCell converts a spreadsheet/CSV cell that may have been read as a
// number back into a plain digit string ("4.47911123456e+11"-style input is
// out of scope, but float-coerced trailing ".0" is stripped).
func CoerceCell(cell string) string {
	v := strings.TrimSpace(cell)
	if i := strings.Index(v, "."); i >= 0 {
		if rest := v[i+1:]; strings.Trim(rest, "0") == "" {
			v = v[:i]
		}
	}
	return v
}

// clean strips whitespace and common separator characters.
func clean(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case ' ', '(', ')', '-', '.', '\t':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

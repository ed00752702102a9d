package landing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a settings string that tolerates numbers and booleans in the
// stored JSON; page editors are not consistent about quoting prices.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*t = Text(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*t = Text(strconv.FormatBool(v))
		return nil
	}
	*t = ""
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// Or returns fallback when t is blank.
func (t Text) Or(fallback string) string {
	if s := t.String(); s != "" {
		return s
	}
	return fallback
}

// Number accepts JSON numbers and numeric strings ("1,450", "৳ 1450").
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if v, ok := ParseAmount(s); ok {
			*n = Number(v)
		}
	}
	return nil
}

// Int returns the number truncated to an int, or fallback when not positive.
func (n Number) Int(fallback int) int {
	if n <= 0 {
		return fallback
	}
	return int(n)
}

// Flag accepts true/false, "true"/"false" and 0/1.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = Flag(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, _ := strconv.ParseBool(strings.TrimSpace(s))
		*f = Flag(v)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = n != 0
	}
	return nil
}

// ParseAmount extracts a decimal amount from a display string. Bengali
// digits are accepted; currency symbols and separators are ignored.
func ParseAmount(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r >= '০' && r <= '৯':
			b.WriteRune('0' + (r - '০'))
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func texts(in []Text) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if s := t.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

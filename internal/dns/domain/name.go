package domain

import (
	"fmt"
	"strings"
)

const (
	// MaxLabelLength is the longest label allowed on the wire.
	MaxLabelLength = 63
	// MaxNameLength is the longest encoded name, length bytes and root label included.
	MaxNameLength = 255
)

// Name is a domain name held as its ordered labels, case preserved.
// The zero value is the root name. A Name is only obtainable through the
// constructors below, so every Name fits the wire limits.
type Name struct {
	labels []string
}

// NewName parses a dotted presentation name such as "example.com" or "example.com.".
// An empty string or "." yields the root name. Escapes are not interpreted.
func NewName(s string) (Name, error) {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return Name{}, nil
	}
	return NameFromLabels(strings.Split(s, "."))
}

// MustName is like NewName but panics on error. Intended for static tables.
func MustName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// NameFromLabels builds a Name from raw labels, enforcing label and name length limits.
func NameFromLabels(labels []string) (Name, error) {
	total := 1 // root label
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if len(l) == 0 {
			return Name{}, fmt.Errorf("empty label in domain name")
		}
		if len(l) > MaxLabelLength {
			return Name{}, fmt.Errorf("label too long: %d bytes", len(l))
		}
		total += len(l) + 1
		out = append(out, l)
	}
	if total > MaxNameLength {
		return Name{}, fmt.Errorf("domain name too long: %d bytes", total)
	}
	return Name{labels: out}, nil
}

// Labels returns a copy of the labels, leftmost first.
func (n Name) Labels() []string {
	out := make([]string, len(n.labels))
	copy(out, n.labels)
	return out
}

// IsRoot reports whether the name has no labels.
func (n Name) IsRoot() bool {
	return len(n.labels) == 0
}

// WireLength is the number of bytes the uncompressed name occupies on the wire.
func (n Name) WireLength() int {
	total := 1
	for _, l := range n.labels {
		total += len(l) + 1
	}
	return total
}

// Equal compares two names case-insensitively.
func (n Name) Equal(o Name) bool {
	if len(n.labels) != len(o.labels) {
		return false
	}
	for i := range n.labels {
		if !strings.EqualFold(n.labels[i], o.labels[i]) {
			return false
		}
	}
	return true
}

// String renders the name in printable presentation form without the trailing dot.
// Dots and backslashes inside labels are escaped, non-printable bytes become \DDD.
// The root name renders as ".".
func (n Name) String() string {
	if len(n.labels) == 0 {
		return "."
	}
	var sb strings.Builder
	for i, l := range n.labels {
		if i > 0 {
			sb.WriteByte('.')
		}
		for j := 0; j < len(l); j++ {
			c := l[j]
			switch {
			case c == '.' || c == '\\':
				sb.WriteByte('\\')
				sb.WriteByte(c)
			case c < 0x21 || c > 0x7E:
				fmt.Fprintf(&sb, "\\%03d", c)
			default:
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}

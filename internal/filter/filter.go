// Package filter implements the allow/deny host-substring policy applied to
// every normalised URL before it reaches the cull stage. A Filter never
// errors at match time: a URL either passes or it doesn't.
package filter

import "strings"

// Mode selects which list, if any, a Filter consults.
type Mode int

const (
	// None passes every URL through unfiltered.
	None Mode = iota
	// Allow passes a URL only if its host contains one of the list entries.
	Allow
	// Deny passes a URL unless its host contains one of the list entries.
	Deny
)

// Filter holds a loaded allow or deny list. The zero value is Mode None,
// which passes everything.
type Filter struct {
	mode    Mode
	entries []string
}

// New builds a Filter from a mode and its entries. Entries are matched
// case-sensitively as host substrings; an empty entries slice under Allow
// passes nothing, under Deny passes everything; both are valid,
// unsurprising edge cases, not errors.
func New(mode Mode, entries []string) Filter {
	return Filter{mode: mode, entries: entries}
}

// Pass reports whether host clears the filter. A task with no host string
// is dropped by Allow or Deny and passed only by None.
func (f Filter) Pass(host string) bool {
	switch f.mode {
	case None:
		return true
	case Allow:
		if host == "" {
			return false
		}
		return f.matchesAny(host)
	case Deny:
		if host == "" {
			return false
		}
		return !f.matchesAny(host)
	default:
		return true
	}
}

func (f Filter) matchesAny(host string) bool {
	for _, entry := range f.entries {
		if strings.Contains(host, entry) {
			return true
		}
	}
	return false
}

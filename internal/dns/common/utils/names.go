// Package utils holds small helpers for presenting domain names in logs.
package utils

import (
	"net/netip"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// CanonicalDNSName lowercases name, trims surrounding whitespace and strips
// every trailing dot. The root name becomes the empty string.
func CanonicalDNSName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimRight(name, ".")
}

// GetApexDomain returns the registrable domain (public suffix plus one label)
// of name, used to group probes against sibling names. IP literals and names
// the suffix list cannot place are returned in canonical form.
func GetApexDomain(name string) string {
	name = CanonicalDNSName(name)
	if name == "" {
		return ""
	}
	if _, err := netip.ParseAddr(name); err == nil {
		return name
	}
	apex, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}
	return apex
}

package naming

import (
	"fmt"
	"strings"
)

// Naming functions for provisioned resources.
// Identifiers derive from the virtual instance ID alone so that retries
// and lookups land on the same resource without stored state.

const (
	maxDBIdentifierLen = 63
	maxHostnameLen     = 63
)

// Instance returns the display name for a compute instance.
func Instance(prefix, virtualID string) string {
	if prefix == "" {
		return virtualID
	}
	return fmt.Sprintf("%s-%s", prefix, virtualID)
}

// KeyPair returns the provider-side name for an imported key pair.
func KeyPair(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", prefix, name)
}

// DBIdentifier derives an RDS database instance identifier from the
// virtual instance ID. RDS identifiers must start with a letter, contain
// only letters, digits, and single hyphens, not end with a hyphen, and
// stay within 63 characters.
func DBIdentifier(prefix, virtualID string) string {
	id := sanitize(Instance(prefix, virtualID), maxDBIdentifierLen)
	if id == "" || !isLetter(rune(id[0])) {
		id = sanitize("db-"+id, maxDBIdentifierLen)
	}
	return id
}

// Hostname derives a Hetzner Cloud server name from the virtual instance
// ID. Server names are RFC 1123 labels: lowercase letters, digits, and
// hyphens, at most 63 characters.
func Hostname(prefix, virtualID string) string {
	name := sanitize(Instance(prefix, virtualID), maxHostnameLen)
	if name == "" {
		return "instance"
	}
	return name
}

// sanitize lowercases s, replaces every run of disallowed characters with
// a single hyphen, trims hyphens from both ends, and truncates to maxLen.
func sanitize(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

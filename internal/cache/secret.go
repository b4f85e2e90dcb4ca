package cache

import "crypto/subtle"

// SecretEqual compares a provided secret with the configured one in constant
// time. When lengths differ it still performs a full-width compare of the
// configured secret against itself so the timing does not reveal whether the
// length matched.
func SecretEqual(provided, configured string) bool {
	p := []byte(provided)
	c := []byte(configured)
	if len(p) != len(c) {
		subtle.ConstantTimeCompare(c, c)
		return false
	}
	return subtle.ConstantTimeCompare(p, c) == 1
}

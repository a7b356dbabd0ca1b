package identifier

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

// Prefixes for each entity kind stored in the database.
const (
	PrefixPost        = "p"
	PrefixObservation = "obs"
	PrefixRun         = "run"
	PrefixProfile     = "prf"
	PrefixTag         = "tag"
	PrefixProfileTag  = "pft"
	PrefixAction      = "act"
	PrefixMedia       = "med"
)

var idPattern = regexp.MustCompile(`^([a-z]{1,3})-([0-9a-f]{8})$`)

// Generate returns a new identifier of the form {prefix}-{8 hex chars}.
// The random segment comes from crypto/rand. Only the format is guaranteed;
// uniqueness is enforced by the store's key constraints, not here.
func Generate(prefix string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}

// Validate reports whether id is a well-formed identifier. If expectedPrefix
// is non-empty the prefix segment must match it exactly.
func Validate(id string, expectedPrefix string) bool {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return false
	}
	if expectedPrefix != "" && m[1] != expectedPrefix {
		return false
	}
	return true
}

// ExtractPrefix returns the prefix segment of a well-formed identifier.
func ExtractPrefix(id string) (string, bool) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return "", false
	}
	return m[1], true
}

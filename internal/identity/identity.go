// Package identity validates buyer-supplied GitHub handles.
package identity

import (
	"regexp"
	"strings"
)

// MaxLength is the longest handle GitHub accepts.
const MaxLength = 39

// Consecutive hyphens are accepted.
var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// Identity is a syntactically valid GitHub handle.
type Identity string

func (i Identity) String() string { return string(i) }

// Normalize trims raw, strips a single leading '@' and validates the result.
// Values that are not strings, or do not form a valid handle, report false.
func Normalize(raw any) (Identity, bool) {
	var value string
	switch v := raw.(type) {
	case string:
		value = v
	case *string:
		if v == nil {
			return "", false
		}
		value = *v
	default:
		return "", false
	}

	value = strings.TrimPrefix(strings.TrimSpace(value), "@")
	if value == "" || len(value) > MaxLength {
		return "", false
	}
	if !handlePattern.MatchString(value) {
		return "", false
	}
	return Identity(value), true
}

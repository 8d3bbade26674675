package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// IdentityKey derives the storage namespace for an email address.
//
// The address is trimmed, NFC normalized and case folded, so visually equal
// addresses typed on different keyboards map to one namespace.
func IdentityKey(email string) string {
	s := strings.TrimSpace(email)
	s = norm.NFC.String(s)
	return cases.Fold().String(s)
}

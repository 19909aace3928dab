package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Name trims and collapses inner whitespace and converts to NFC,
// so "  Juan   Pérez" and "Juan Pérez" end up the same.
func Name(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// Key is the case-insensitive form of Name, used for fuzzy lookups only.
func Key(name string) string {
	return cases.Fold().String(Name(name))
}

package utils

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// Slugify lowercases the name and turns every whitespace run into a single
// hyphen. Accents are kept: "Pharmacie Koné" becomes "pharmacie-koné".
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

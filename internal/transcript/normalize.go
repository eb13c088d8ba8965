package transcript

import "strings"

// Normalize collapses every whitespace run to a single space and trims the
// ends. It is only used to compare content, never to store it.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package scope

import "strings"

// Key normalizes an identifier for comparison. Windows environment names are
// case-insensitive but keep the case they were defined with.
func Key(name string) string {
	return strings.ToLower(name)
}

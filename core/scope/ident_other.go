//go:build !windows

package scope

// Key normalizes an identifier for comparison.
func Key(name string) string {
	return name
}

//go:build !debug

package dispatch

// debugLog is a no-op outside of -tags debug builds.
func debugLog(format string, args ...interface{}) {}

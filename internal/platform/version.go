// Package platform reports the host operating system version.
package platform

import "fmt"

// Version returns "<sysname> <release>", e.g. "Linux 6.1.0", or "unknown"
// when the host cannot be identified.
func Version() string {
	sys, rel, err := uname()
	if err != nil || sys == "" {
		return "unknown"
	}
	return format(sys, rel)
}

func format(sys, rel string) string {
	if rel == "" {
		return sys
	}
	return fmt.Sprintf("%s %s", sys, rel)
}

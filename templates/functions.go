// Package templates provides the template helpers shared by the report sinks.
package templates

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/KueenLau/presto/types"
)

// GetTemplateFunc returns the centralized template functions used across the application
func GetTemplateFunc() template.FuncMap {
	return template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			if d < time.Second {
				return fmt.Sprintf("%dms", d.Milliseconds())
			}
			return d.Truncate(time.Millisecond).String()
		},
		"getStatusClass": func(status types.RunStatus) string {
			return getStatusString(status)
		},
		"getStatusText": func(status types.RunStatus) string {
			return strings.ToUpper(getStatusString(status))
		},
		"join": func(items []string, sep string) string {
			return strings.Join(items, sep)
		},
	}
}

// getStatusString returns a consistent lowercase status string
func getStatusString(status types.RunStatus) string {
	switch status {
	case types.RunStatusPass:
		return "pass"
	case types.RunStatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

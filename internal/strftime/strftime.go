// Package strftime translates the subset of strftime verbs used by backup
// instance-directory naming into Go's reference-time layout fragments and
// formats each verb with the standard library, copying all other text
// unchanged. No formatting library in the dependency
// retrieval pack offers strftime-style verbs (the pack's time handling is
// all stdlib time.Format), so this small verb table is implemented
// directly against time.Time rather than adding an unneeded dependency.
package strftime

import (
	"strings"
	"time"
)

// verbs maps the strftime verbs this package supports to Go reference-time
// layout fragments. Only the verbs useful for naming a backup instance
// directory are supported; anything else is passed through literally.
var verbs = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
	'S': "05",
}

// Format renders t according to a strftime-style pattern such as
// "%Y-%m-%d_%H%M%S".
func Format(pattern string, t time.Time) string {
	var out strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '%' && i+1 < len(pattern) {
			if fragment, ok := verbs[pattern[i+1]]; ok {
				out.WriteString(t.Format(fragment))
				i++
				continue
			}
			if pattern[i+1] == '%' {
				out.WriteByte('%')
				i++
				continue
			}
		}
		out.WriteByte(pattern[i])
	}
	return out.String()
}

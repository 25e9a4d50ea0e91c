package save

import (
	"fmt"
	"strings"
	"time"
)

// Slugify turns a display name into a slot key: lowercase alphanumerics with
// single dashes between runs. Names with no usable characters get a
// timestamped fallback so a save is never silently dropped.
func Slugify(name string, now time.Time) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return fmt.Sprintf("save-%d", now.UnixMilli())
	}
	return slug
}

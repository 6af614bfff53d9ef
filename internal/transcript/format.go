package transcript

import "fmt"

// FormatTimestamp renders seconds as "H:MM:SS" style display time. With
// forceHours the hours component is always present and zero padded, matching
// YouTube chapter markers.
func FormatTimestamp(seconds float64, forceHours bool) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 || forceHours {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

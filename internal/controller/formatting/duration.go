package formatting

import "fmt"

// Duration renders minutes like "45 mins", "1 hr" or "2 hrs 15 mins".
func Duration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	switch {
	case hours == 0:
		return plural(mins, "min", "mins")
	case mins == 0:
		return plural(hours, "hr", "hrs")
	default:
		return plural(hours, "hr", "hrs") + " " + plural(mins, "min", "mins")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

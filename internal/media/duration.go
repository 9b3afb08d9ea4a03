package media

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// durationPattern matches the "Duration: 00:05:23.45" line that ffprobe and
// ffmpeg print for an input. "Duration: N/A" does not match.
var durationPattern = regexp.MustCompile(`Duration:\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// ParseDuration extracts the media duration from ffprobe/ffmpeg output.
// It returns ErrDurationUnavailable when no positive duration is reported.
func ParseDuration(output string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(output)
	if m == nil {
		return 0, fmt.Errorf("%w: no duration in probe output", ErrDurationUnavailable)
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: hours %q: %v", ErrDurationUnavailable, m[1], err)
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("%w: minutes %q: %v", ErrDurationUnavailable, m[2], err)
	}
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: seconds %q: %v", ErrDurationUnavailable, m[3], err)
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)).Round(time.Millisecond)
	if d <= 0 {
		return 0, fmt.Errorf("%w: zero-length media", ErrDurationUnavailable)
	}
	return d, nil
}

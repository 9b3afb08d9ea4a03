package media

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// containerPattern matches the demuxer list ffprobe prints for the first
// input, e.g. "Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'x':".
var containerPattern = regexp.MustCompile(`Input #\d+, ([\w,]+), from`)

// segmentExts are the containers ffmpeg can stream-copy into, in order of
// preference when a demuxer reports several names.
var segmentExts = []string{"webm", "m4a", "mp3", "ogg", "wav", "flac", "aac"}

// ContainerExt maps ffprobe output to a file extension (with the leading dot)
// suitable for stream-copied segments.
func ContainerExt(output string) (string, error) {
	m := containerPattern.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("%w: no container in probe output", ErrSegmentingFailed)
	}
	names := strings.Split(m[1], ",")
	for _, ext := range segmentExts {
		if slices.Contains(names, ext) {
			return "." + ext, nil
		}
	}
	return "", fmt.Errorf("%w: unrecognized container %q", ErrSegmentingFailed, m[1])
}

package transcribe

import "time"

// SegmentSeconds converts a byte budget into a whole-second segment length
// using the file's average byte rate. The result is never below one second.
func SegmentSeconds(totalBytes int64, total time.Duration, maxBytes int64) int {
	ms := total.Milliseconds()
	if totalBytes <= 0 || ms <= 0 || maxBytes <= 0 {
		return 1
	}
	// maxBytes / (totalBytes / seconds) in integers; 20 MiB of a
	// 60 MiB / 300 s file must come out as 100, not 99.
	secs := maxBytes * ms / (totalBytes * 1000)
	if secs < 1 {
		return 1
	}
	return int(secs)
}

// PlanSegments slices [0, total) into consecutive pieces of segmentSeconds;
// the last piece takes whatever remains.
func PlanSegments(total time.Duration, segmentSeconds int) SegmentPlan {
	if total <= 0 {
		return nil
	}
	if segmentSeconds < 1 {
		segmentSeconds = 1
	}
	step := time.Duration(segmentSeconds) * time.Second

	var plan SegmentPlan
	for start := time.Duration(0); start < total; start += step {
		plan = append(plan, PlannedSegment{
			Index:    len(plan),
			Start:    start,
			Duration: min(step, total-start),
		})
	}
	return plan
}

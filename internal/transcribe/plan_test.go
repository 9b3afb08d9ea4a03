package transcribe

import (
	"testing"
	"time"
)

func TestSegmentSeconds(t *testing.T) {
	tests := []struct {
		name       string
		totalBytes int64
		total      time.Duration
		maxBytes   int64
		want       int
	}{
		{"60MiB over 300s at 20MiB", 60 << 20, 300 * time.Second, 20 << 20, 100},
		{"60MB over 300s at 20MB", 60_000_000, 300 * time.Second, 20_000_000, 100},
		{"floors fractional seconds", 1000, 10 * time.Second, 250, 2},
		{"never below one second", 100 << 20, 10 * time.Second, 1, 1},
		{"unknown duration", 1000, 0, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentSeconds(tt.totalBytes, tt.total, tt.maxBytes); got != tt.want {
				t.Errorf("SegmentSeconds = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlanSegments_CoversWholeDuration(t *testing.T) {
	tests := []struct {
		total time.Duration
		secs  int
		count int
	}{
		{300 * time.Second, 100, 3},
		{301*time.Second + 500*time.Millisecond, 100, 4},
		{59 * time.Second, 60, 1},
		{2*time.Hour + 17*time.Second, 613, 12},
		{1500 * time.Millisecond, 1, 2},
	}

	for _, tt := range tests {
		plan := PlanSegments(tt.total, tt.secs)
		if len(plan) != tt.count {
			t.Errorf("PlanSegments(%v, %d) produced %d segments, want %d", tt.total, tt.secs, len(plan), tt.count)
		}
		if plan.Total() != tt.total {
			t.Errorf("PlanSegments(%v, %d) total = %v", tt.total, tt.secs, plan.Total())
		}

		var cursor time.Duration
		for i, s := range plan {
			if s.Index != i {
				t.Errorf("segment %d has index %d", i, s.Index)
			}
			if s.Start != cursor {
				t.Errorf("segment %d starts at %v, want %v (gap or overlap)", i, s.Start, cursor)
			}
			if s.Duration <= 0 || s.Duration > time.Duration(tt.secs)*time.Second {
				t.Errorf("segment %d has duration %v", i, s.Duration)
			}
			cursor += s.Duration
		}
	}
}

func TestPlanSegments_Empty(t *testing.T) {
	if plan := PlanSegments(0, 10); plan != nil {
		t.Errorf("expected nil plan for zero duration, got %v", plan)
	}
}

func TestJoinFragments_OrderByIndex(t *testing.T) {
	fragments := []Fragment{
		{Index: 2, Text: "third"},
		{Index: 0, Text: "  first"},
		{Index: 1, Text: "second"},
	}
	if got := JoinFragments(fragments); got != "first second third" {
		t.Errorf("JoinFragments = %q", got)
	}
	if fragments[0].Index != 2 {
		t.Error("JoinFragments must not reorder the caller's slice")
	}
}

func TestJoinFragments_SingleSpaceBetweenFragments(t *testing.T) {
	tests := []struct {
		name      string
		fragments []Fragment
		want      string
	}{
		{
			name:      "leading space and silent segment",
			fragments: []Fragment{{Index: 0, Text: " a"}, {Index: 1, Text: ""}, {Index: 2, Text: " b "}},
			want:      "a b",
		},
		{
			name: "whisper style output",
			fragments: []Fragment{
				{Index: 0, Text: " Hello there."},
				{Index: 1, Text: " General Kenobi."},
				{Index: 2, Text: "  \n"},
				{Index: 3, Text: " Bye."},
			},
			want: "Hello there. General Kenobi. Bye.",
		},
		{
			name:      "all silent",
			fragments: []Fragment{{Index: 0, Text: " "}, {Index: 1, Text: ""}},
			want:      "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinFragments(tt.fragments); got != tt.want {
				t.Errorf("JoinFragments = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinFragments_Empty(t *testing.T) {
	if got := JoinFragments(nil); got != "" {
		t.Errorf("JoinFragments(nil) = %q", got)
	}
}

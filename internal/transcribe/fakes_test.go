package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeTools stands in for ffprobe/ffmpeg. Split writes one small file per
// expected segment so the rest of the pipeline sees real paths.
type fakeTools struct {
	mu sync.Mutex

	checkErr error
	duration time.Duration
	probeErr error
	splitErr error

	checkCalls int
	probeCalls int
	splitCalls int
	segments   []time.Duration
}

func (f *fakeTools) Check() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls++
	return f.checkErr
}

func (f *fakeTools) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	return f.duration, f.probeErr
}

func (f *fakeTools) Split(_ context.Context, src string, segment time.Duration, outDir string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.splitCalls++
	f.segments = append(f.segments, segment)
	if f.splitErr != nil {
		// Leave a partial file behind like a crashed ffmpeg would.
		_ = os.WriteFile(filepath.Join(outDir, "chunk-000"+filepath.Ext(src)), []byte("partial"), 0o600)
		return nil, f.splitErr
	}

	n := int((f.duration + segment - 1) / segment)
	paths := make([]string, n)
	for i := range n {
		p := filepath.Join(outDir, fmt.Sprintf("chunk-%03d%s", i, filepath.Ext(src)))
		if err := os.WriteFile(p, []byte("segment"), 0o600); err != nil {
			return nil, err
		}
		paths[i] = p
	}
	return paths, nil
}

func (f *fakeTools) calls() (check, probe, split int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkCalls, f.probeCalls, f.splitCalls
}

// fakeRecognizer answers through fn and logs every call by file name.
type fakeRecognizer struct {
	mu    sync.Mutex
	fn    func(ctx context.Context, name string) (string, error)
	calls []string
}

func (r *fakeRecognizer) Recognize(ctx context.Context, path string) (string, error) {
	name := filepath.Base(path)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("recognizer got unreadable file: %w", err)
	}
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
	return r.fn(ctx, name)
}

func (r *fakeRecognizer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *fakeRecognizer) callsFor(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

// zeroReader yields an endless stream of zero bytes.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func assertScratchEmpty(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read scratch root: %v", err)
	}
	if len(entries) != 0 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("scratch not cleaned up, found %v", names)
	}
}

package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-recorded frames for testing.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
}

// NewMockCamera creates a mock camera over the given frames. With loop set,
// playback wraps around instead of running out.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, fmt.Errorf("no more frames")
		}
		c.index = 0
	}

	// Clone so the caller can close its copy freely
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return DefaultFPS }
func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// MockSampledSource is a SampledSource for tests: a fixed duration and a
// blank frame at every offset. Reads are recorded for assertions.
type MockSampledSource struct {
	durationMs int64
	mu         sync.Mutex
	reads      []int64
	closed     bool
	readErr    error
}

// NewMockSampledSource creates a mock source with the given duration.
func NewMockSampledSource(durationMs int64) *MockSampledSource {
	return &MockSampledSource{durationMs: durationMs}
}

// SetReadError makes every subsequent ReadAt fail with err.
func (s *MockSampledSource) SetReadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

func (s *MockSampledSource) DurationMs() int64 {
	return s.durationMs
}

func (s *MockSampledSource) ReadAt(offsetMs int64) (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrVideoClosed
	}
	if s.readErr != nil {
		return nil, s.readErr
	}
	s.reads = append(s.reads, offsetMs)

	mat := gocv.NewMat()
	return &mat, nil
}

func (s *MockSampledSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Reads returns the offsets read so far.
func (s *MockSampledSource) Reads() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.reads...)
}

// Closed reports whether Close has been called.
func (s *MockSampledSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

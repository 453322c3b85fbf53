package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ErrUnknownDuration is returned when a video's total duration cannot be
// determined before playback. Sampled analysis cannot start without it.
var ErrUnknownDuration = errors.New("video duration unknown")

// ErrVideoClosed is returned when reading from a closed video source.
var ErrVideoClosed = errors.New("video source is closed")

// SampledSource is a finite frame source addressable by time offset. The
// sampled analysis loop steps through it at a fixed interval.
type SampledSource interface {
	// DurationMs returns the total duration of the source in milliseconds.
	DurationMs() int64

	// ReadAt decodes the frame at the given offset. The caller owns the
	// returned Mat and must close it.
	ReadAt(offsetMs int64) (*gocv.Mat, error)

	// Close releases the underlying decoder.
	Close() error
}

// VideoFile is a SampledSource backed by a video file on disk.
type VideoFile struct {
	path       string
	capture    *gocv.VideoCapture
	durationMs int64
	mu         sync.Mutex
	open       bool
}

// OpenVideoFile opens a video file and probes its duration from the frame
// count and frame rate. Files whose duration cannot be determined are
// rejected up front rather than failing mid-session.
func OpenVideoFile(path string) (*VideoFile, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	frames := capture.Get(gocv.VideoCaptureFrameCount)
	if fps <= 0 || frames <= 0 {
		capture.Close()
		return nil, fmt.Errorf("probe %s: %w", path, ErrUnknownDuration)
	}

	return &VideoFile{
		path:       path,
		capture:    capture,
		durationMs: int64(frames / fps * 1000),
		open:       true,
	}, nil
}

// DurationMs returns the probed total duration in milliseconds.
func (v *VideoFile) DurationMs() int64 {
	return v.durationMs
}

// ReadAt seeks to the given offset and decodes one frame.
func (v *VideoFile) ReadAt(offsetMs int64) (*gocv.Mat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return nil, ErrVideoClosed
	}

	v.capture.Set(gocv.VideoCapturePosMsec, float64(offsetMs))

	mat := gocv.NewMat()
	if ok := v.capture.Read(&mat); !ok {
		mat.Close()
		return nil, fmt.Errorf("read frame at %dms from %s", offsetMs, v.path)
	}
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("empty frame at %dms from %s", offsetMs, v.path)
	}

	return &mat, nil
}

// Close releases the decoder. Safe to call more than once.
func (v *VideoFile) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return nil
	}
	v.open = false
	return v.capture.Close()
}

package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_ReadBeforeOpen(t *testing.T) {
	cam := NewMockCamera(nil, false)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}
}

func TestMockCamera_PlaysFramesInOrder(t *testing.T) {
	m1 := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer m1.Close()
	m2 := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer m2.Close()

	cam := NewMockCamera([]*gocv.Mat{&m1, &m2}, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	first, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer first.Close()
	if first.Rows() != 4 {
		t.Errorf("first frame rows = %d, want 4", first.Rows())
	}

	second, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer second.Close()
	if second.Rows() != 8 {
		t.Errorf("second frame rows = %d, want 8", second.Rows())
	}

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("expected error after the sequence is exhausted")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	m := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer m.Close()

	cam := NewMockCamera([]*gocv.Mat{&m}, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		frame.Close()
	}
}

func TestOpenVideoFile_MissingFile(t *testing.T) {
	if _, err := OpenVideoFile("testdata/does-not-exist.mp4"); err == nil {
		t.Error("expected error opening a missing video file")
	}
}

func TestMockSampledSource_RecordsReads(t *testing.T) {
	src := NewMockSampledSource(200)

	if src.DurationMs() != 200 {
		t.Fatalf("DurationMs() = %d, want 200", src.DurationMs())
	}

	for _, ts := range []int64{0, 50, 100} {
		mat, err := src.ReadAt(ts)
		if err != nil {
			t.Fatalf("ReadAt(%d) error = %v", ts, err)
		}
		mat.Close()
	}

	reads := src.Reads()
	if len(reads) != 3 || reads[0] != 0 || reads[2] != 100 {
		t.Errorf("Reads() = %v, want [0 50 100]", reads)
	}

	src.Close()
	if _, err := src.ReadAt(150); !errors.Is(err, ErrVideoClosed) {
		t.Errorf("ReadAt after Close error = %v, want ErrVideoClosed", err)
	}
}

package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"
)

// The live regime decouples the sensor-rate camera from the slower pose
// estimator with a single-frame hand-off slot. When the estimator is still
// busy with an earlier frame, newer frames overwrite the waiting one:
// drop-oldest, keep-latest. Memory and latency stay bounded at the cost of
// skipped frames, and the counter only ever sees one frame at a time.

func newFrameSlot() chan *gocv.Mat {
	return make(chan *gocv.Mat, 1)
}

// offerFrame places mat in the slot, displacing a stale waiting frame.
func offerFrame(slot chan *gocv.Mat, mat *gocv.Mat) {
	select {
	case slot <- mat:
		return
	default:
	}

	// Slot occupied: discard the older frame and retry once.
	select {
	case old := <-slot:
		old.Close()
	default:
	}
	select {
	case slot <- mat:
	default:
		mat.Close()
	}
}

// drainFrameSlot releases a frame left behind after shutdown.
func drainFrameSlot(slot chan *gocv.Mat) {
	select {
	case mat := <-slot:
		mat.Close()
	default:
	}
}

// captureLoop reads camera frames at the sensor rate and offers each to the
// hand-off slot.
func (a *App) captureLoop(stopCh chan struct{}, slot chan *gocv.Mat) {
	defer a.wg.Done()

	interval := time.Second / time.Duration(a.camera.FPS())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			mat, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			offerFrame(slot, mat)
		}
	}
}

// estimateLoop is the single consumer of the slot. It runs the estimator
// and feeds the counter, so at most one frame is in flight through the core.
func (a *App) estimateLoop(stopCh chan struct{}, slot chan *gocv.Mat) {
	defer a.wg.Done()

	for {
		select {
		case <-stopCh:
			return
		case mat := <-slot:
			frame, err := a.estimator.Estimate(mat)
			mat.Close()
			if err != nil {
				// Frame-local failure: skip and keep processing
				log.Printf("Error estimating pose: %v", err)
				continue
			}

			frame.TimestampMs = time.Now().UnixMilli()
			a.counter.ProcessFrame(frame)
		}
	}
}

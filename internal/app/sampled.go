package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/repwatch/internal/analysis"
	"github.com/ayusman/repwatch/internal/capture"
	"github.com/ayusman/repwatch/internal/pose"
)

// DefaultSampleIntervalMs is the virtual time step of the sampled regime.
const DefaultSampleIntervalMs = 50

// Playback exposes the externally-owned playback state the sampled loop
// polls each iteration. Implementations must be safe for concurrent reads;
// the loop never writes playback state.
type Playback interface {
	IsPlaying() bool
}

// SampledRunner drives analysis over a finite pre-recorded source. A single
// worker advances a virtual timestamp by a fixed interval, synchronously
// estimating each frame before advancing, so the regime is strictly
// sequential.
type SampledRunner struct {
	source     capture.SampledSource
	estimator  pose.Estimator
	counter    *analysis.Counter
	playback   Playback
	intervalMs int64
}

// NewSampledRunner creates a runner over the given source. A nil playback
// means the source is always playing. An intervalMs of 0 uses the default.
func NewSampledRunner(source capture.SampledSource, estimator pose.Estimator, counter *analysis.Counter, playback Playback, intervalMs int64) *SampledRunner {
	if intervalMs <= 0 {
		intervalMs = DefaultSampleIntervalMs
	}
	return &SampledRunner{
		source:     source,
		estimator:  estimator,
		counter:    counter,
		playback:   playback,
		intervalMs: intervalMs,
	}
}

// Run processes the source to completion, emitting the session summary
// through the counter's OnComplete callback. Cancelling the context stops
// the loop cooperatively: resources are still released, but no summary is
// produced and no error is reported.
func (r *SampledRunner) Run(ctx context.Context) error {
	defer func() {
		// Cleanup runs on every exit; its failures are logged and never
		// mask the session outcome.
		if err := r.source.Close(); err != nil {
			log.Printf("Error closing sampled source: %v", err)
		}
		if err := r.estimator.Close(); err != nil {
			log.Printf("Error closing estimator: %v", err)
		}
	}()

	durationMs := r.source.DurationMs()
	if durationMs <= 0 {
		return fmt.Errorf("sampled source: %w", capture.ErrUnknownDuration)
	}

	interval := time.Duration(r.intervalMs) * time.Millisecond
	r.counter.Start()

	for ts := int64(0); ts < durationMs; {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if r.playback != nil && !r.playback.IsPlaying() {
			// Paused: hold the virtual timestamp and retry one
			// interval later.
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
			continue
		}

		mat, err := r.source.ReadAt(ts)
		if err != nil {
			log.Printf("Error reading frame at %dms: %v", ts, err)
			ts += r.intervalMs
			continue
		}

		frame, err := r.estimator.Estimate(mat)
		mat.Close()
		if err != nil {
			log.Printf("Error estimating pose at %dms: %v", ts, err)
		} else {
			frame.TimestampMs = ts
			r.counter.ProcessFrame(frame)
		}

		ts += r.intervalMs
	}

	r.counter.Stop()
	return nil
}

package recognizer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/audio"
)

// Result is delivered on the caller's channel when a recognition task
// finishes. Gen echoes the generation passed to Submit so stale results from
// a cancelled attempt can be discarded.
type Result struct {
	Gen     uint64
	Outcome Outcome
	Err     error
}

// Runner executes recognition off the caller's goroutine, at most one task at
// a time. All providers share this one driver; none of them carries its own
// threading.
type Runner struct {
	log     zerolog.Logger
	submits chan struct{} // capacity 1, holds the single in-flight slot
	cancel  chan context.CancelFunc
	quit    chan struct{}
}

// NewRunner creates an idle runner.
func NewRunner(log zerolog.Logger) *Runner {
	r := &Runner{
		log:     log.With().Str("component", "recognition-task").Logger(),
		submits: make(chan struct{}, 1),
		cancel:  make(chan context.CancelFunc, 1),
		quit:    make(chan struct{}),
	}
	return r
}

// Busy reports whether a task is currently outstanding.
func (r *Runner) Busy() bool {
	return len(r.submits) > 0
}

// Submit starts one recognition of clip through adapter. The result arrives
// on results tagged with gen. A second submit while one is outstanding is
// rejected with ErrAlreadyInProgress, never queued.
func (r *Runner) Submit(adapter Adapter, clip audio.Clip, gen uint64, results chan<- Result) error {
	select {
	case r.submits <- struct{}{}:
	default:
		return ErrAlreadyInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel <- cancel

	go func() {
		defer func() {
			cancel()
			select {
			case <-r.cancel:
			default:
			}
			<-r.submits
		}()

		start := time.Now()
		outcome, err := adapter.Recognize(ctx, clip.PCM, clip.Format)
		if err != nil {
			r.log.Warn().Err(err).Str("provider", adapter.Name()).Dur("took", time.Since(start)).Msg("Recognition failed")
		} else {
			r.log.Info().Str("provider", adapter.Name()).Dur("took", time.Since(start)).Msg("Recognition finished")
		}

		select {
		case results <- Result{Gen: gen, Outcome: outcome, Err: err}:
		case <-r.quit:
			// Owner is gone; the result is discarded.
		}
	}()
	return nil
}

// Cancel asks the outstanding task, if any, to stop and waits at most grace
// for it to wind down. Providers that cannot be interrupted keep running in
// the background; their result is discarded by generation.
func (r *Runner) Cancel(grace time.Duration) {
	select {
	case cancel := <-r.cancel:
		cancel()
	default:
		return
	}

	deadline := time.After(grace)
	for {
		if !r.Busy() {
			return
		}
		select {
		case <-deadline:
			r.log.Warn().Dur("grace", grace).Msg("Recognition did not stop within grace period, abandoning")
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Close abandons any outstanding task and stops result delivery.
func (r *Runner) Close() {
	select {
	case <-r.quit:
	default:
		close(r.quit)
	}
	select {
	case cancel := <-r.cancel:
		cancel()
	default:
	}
}

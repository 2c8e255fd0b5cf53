package dispatch

import (
	"context"
	"time"

	"github.com/ricegrep/ricegrep/internal/watcher"
)

// Watch starts a debounced filesystem watch over req.Root (or the
// dispatcher's root when empty) and drives an incremental index update on
// each coalesced batch of changes, reporting one WatchEvent per batch on
// the returned channel. The channel closes when the watch stops, either
// because ctx was cancelled or req.Timeout elapsed. req.Paths is not
// consulted: only the single root directory is watched.
func (d *Dispatcher) Watch(ctx context.Context, req WatchRequest) (<-chan WatchEvent, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("watch")
	}
	root := req.Root
	if root == "" {
		root = d.root
	}

	opts := watcher.DefaultOptions()
	if req.DebounceSecs > 0 {
		opts.DebounceWindow = time.Duration(req.DebounceSecs * float64(time.Second))
	}

	hw, err := watcher.NewHybridWatcher(opts)
	if err != nil {
		return nil, err
	}

	watchCtx := ctx
	var cancel context.CancelFunc
	if req.Timeout > 0 {
		watchCtx, cancel = context.WithTimeout(ctx, req.Timeout)
	}

	if err := hw.Start(watchCtx, root); err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, err
	}

	out := make(chan WatchEvent)
	go func() {
		defer close(out)
		if cancel != nil {
			defer cancel()
		}
		defer hw.Stop()

		for {
			select {
			case <-watchCtx.Done():
				return
			case events, ok := <-hw.Events():
				if !ok {
					return
				}
				changed := make([]string, len(events))
				for i, e := range events {
					changed[i] = e.Path
				}
				_, updateErr := d.IndexUpdate(watchCtx, IndexUpdateRequest{Root: root})
				select {
				case out <- WatchEvent{ChangedPaths: changed, Err: updateErr}:
				case <-watchCtx.Done():
					return
				}
			case err, ok := <-hw.Errors():
				if !ok {
					continue
				}
				select {
				case out <- WatchEvent{Err: err}:
				case <-watchCtx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

package batch

import (
	"context"
	"sync"
)

// merge multiplexes the per-worker channels into a single stream, closing
// it once every input is drained.
func merge[T any](ctx context.Context, channels ...<-chan T) <-chan T {
	var wg sync.WaitGroup

	wg.Add(len(channels))
	out := make(chan T)
	multiplex := func(c <-chan T) {
		defer wg.Done()
		for v := range c {
			select {
			case <-ctx.Done():
				return
			case out <- v:
			}
		}
	}

	for _, c := range channels {
		go multiplex(c)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

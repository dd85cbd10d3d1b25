// README: Live position feeds, including the fallback when GPS is denied.
package location

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"javai/internal/types"
)

// Feed streams device positions. The error channel reports a feed that
// can no longer deliver; both channels close when the context ends.
type Feed interface {
	Watch(ctx context.Context) (<-chan types.Point, <-chan error)
}

// FixedFeed replays one position on an interval. Used by the demo runner
// and as the degraded source behind FallbackFeed.
type FixedFeed struct {
	Position types.Point
	Interval time.Duration
}

func (f FixedFeed) Watch(ctx context.Context) (<-chan types.Point, <-chan error) {
	interval := f.Interval
	if interval <= 0 {
		interval = time.Second
	}
	points := make(chan types.Point)
	errs := make(chan error)
	go func() {
		defer close(points)
		defer close(errs)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case points <- f.Position:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return points, errs
}

// FallbackFeed wraps a primary feed and degrades to a fixed center when
// the primary reports an error, so the map never goes blank.
type FallbackFeed struct {
	Primary Feed
	Center  types.Point
	Log     *logrus.Entry
}

func (f FallbackFeed) Watch(ctx context.Context) (<-chan types.Point, <-chan error) {
	log := f.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	points := make(chan types.Point)
	errs := make(chan error)
	go func() {
		defer close(points)
		defer close(errs)

		inner, innerErrs := f.Primary.Watch(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case p, ok := <-inner:
				if !ok {
					return
				}
				select {
				case points <- p:
				case <-ctx.Done():
					return
				}
			case err, ok := <-innerErrs:
				if !ok {
					innerErrs = nil
					continue
				}
				log.WithError(err).Warn("position feed unavailable, using fallback center")
				select {
				case points <- f.Center:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return points, errs
}

package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ImageLister reports the image references currently held by products.
// *store.ProductStore satisfies it.
type ImageLister interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

type SweepReport struct {
	Scanned int `json:"scanned"`
	Kept    int `json:"kept"`
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}

// Sweeper removes product images that no product references. Objects
// younger than the grace period are kept so an upload whose product row is
// still being written is never collected.
type Sweeper struct {
	bucket Bucket
	images ImageLister
	grace  time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func NewSweeper(bucket Bucket, images ImageLister, grace time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		bucket: bucket,
		images: images,
		grace:  grace,
		log:    log.Named("sweeper"),
		now:    time.Now,
	}
}

func (s *Sweeper) Sweep(ctx context.Context) (SweepReport, error) {
	var rep SweepReport

	objects, err := s.bucket.List(ctx, ProductPrefix)
	if err != nil {
		return rep, fmt.Errorf("sweep: %w", err)
	}
	urls, err := s.images.ImageURLs(ctx)
	if err != nil {
		return rep, fmt.Errorf("sweep: %w", err)
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if p, ok := s.bucket.PathOf(u); ok {
			referenced[p] = struct{}{}
		}
	}

	cutoff := s.now().Add(-s.grace)
	for _, obj := range objects {
		rep.Scanned++
		if _, ok := referenced[obj.Path]; ok || obj.Updated.After(cutoff) {
			rep.Kept++
			continue
		}
		if err := s.bucket.Remove(ctx, obj.Path); err != nil {
			rep.Failed++
			s.log.Warn("remove orphan image failed", zap.String("path", obj.Path), zap.Error(err))
			continue
		}
		rep.Removed++
		s.log.Info("removed orphan image", zap.String("path", obj.Path))
	}
	return rep, nil
}

// RunDaily sweeps once a day at the given hour (local time) until ctx is
// done.
func (s *Sweeper) RunDaily(ctx context.Context, hour int) {
	for {
		next := nextRun(s.now(), hour)
		s.log.Info("next image sweep scheduled", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		rep, err := s.Sweep(ctx)
		if err != nil {
			s.log.Error("image sweep failed", zap.Error(err))
			continue
		}
		s.log.Info("image sweep finished",
			zap.Int("scanned", rep.Scanned),
			zap.Int("removed", rep.Removed),
			zap.Int("failed", rep.Failed),
		)
	}
}

func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

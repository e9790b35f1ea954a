package weather

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// LocationLister returns the extra places worth keeping warm, e.g. profile locations.
type LocationLister func(ctx context.Context) ([]string, error)

// PollJob refreshes the default location plus every listed one.
func (s *Service) PollJob(list LocationLister) func(ctx context.Context) {
	return func(ctx context.Context) {
		seen := map[string]bool{}
		locations := []string{s.opts.DefaultLocation}
		if list != nil {
			more, err := list(ctx)
			if err != nil {
				s.log.Warn("list poll locations", zap.Error(err))
			}
			locations = append(locations, more...)
		}
		ok, failed := 0, 0
		for _, loc := range locations {
			loc = strings.TrimSpace(loc)
			k := cacheKey(loc)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			if ctx.Err() != nil {
				return
			}
			if err := s.Refresh(ctx, loc); err != nil {
				failed++
				continue
			}
			ok++
		}
		s.log.Info("weather poll", zap.Int("refreshed", ok), zap.Int("failed", failed))
	}
}

// Package discovery turns raw SSDP hits into a ranked, deduplicated list of
// usable media renderers.
package discovery

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seba2390/SymMediaStreamer/internal/description"
	"github.com/seba2390/SymMediaStreamer/internal/domain"
	"github.com/seba2390/SymMediaStreamer/internal/logger"
	"github.com/seba2390/SymMediaStreamer/internal/ssdp"
)

// fetchConcurrency bounds parallel description downloads; home networks
// rarely hold more than a handful of devices anyway.
const fetchConcurrency = 4

// Renderer pairs a discovery hit with its parsed description.
type Renderer struct {
	Device      domain.Device
	Description domain.Description
}

func (r Renderer) Name() string {
	if r.Description.FriendlyName != "" {
		return r.Description.FriendlyName
	}
	return r.Device.Location
}

type Options struct {
	Timeout       time.Duration
	MX            int
	SearchTargets []string
}

// Service discovers renderers on the local network. The discover and fetch
// functions are injectable for tests.
type Service struct {
	log      logger.Logger
	discover func(ctx context.Context, opts ssdp.Options) ([]domain.Device, error)
	fetch    func(ctx context.Context, location string) (domain.Description, error)
}

func NewService(log logger.Logger) *Service {
	return &Service{
		log:      logger.OrNop(log),
		discover: ssdp.Discover,
		fetch:    description.Fetch,
	}
}

// ListRenderers runs an SSDP sweep, fetches every hit's description
// concurrently and keeps the devices that expose AVTransport. Multiple hits
// for the same root device collapse to the one whose search target ranks
// most specific. The result is sorted by friendly name.
func (s *Service) ListRenderers(ctx context.Context, opts Options) ([]Renderer, error) {
	devices, err := s.discover(ctx, ssdp.Options{
		Timeout:       opts.Timeout,
		MX:            opts.MX,
		SearchTargets: opts.SearchTargets,
		Logger:        s.log,
	})
	if err != nil {
		return nil, err
	}

	var (
		mu         sync.Mutex
		candidates []Renderer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, dev := range devices {
		dev := dev
		g.Go(func() error {
			desc, err := s.fetch(gctx, dev.Location)
			if err != nil {
				// unreachable or broken devices drop out silently
				s.log.Debug("description fetch failed",
					logger.String("location", dev.Location), logger.Error(err))
				return nil
			}
			if !desc.HasAVTransport() {
				return nil
			}
			mu.Lock()
			candidates = append(candidates, Renderer{Device: dev, Description: desc})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	best := map[string]Renderer{}
	for _, cand := range candidates {
		key := cand.Device.RootUUID()
		if key == "" {
			key = cand.Device.Location
		}
		existing, ok := best[key]
		if !ok || targetRank(cand.Device.SearchTarget) < targetRank(existing.Device.SearchTarget) {
			best[key] = cand
		}
	}

	renderers := make([]Renderer, 0, len(best))
	for _, r := range best {
		renderers = append(renderers, r)
	}
	sort.Slice(renderers, func(i, j int) bool {
		return renderers[i].Name() < renderers[j].Name()
	})

	s.log.Info("discovery finished",
		logger.Int("replies", len(devices)),
		logger.Int("renderers", len(renderers)))
	return renderers, nil
}

// targetRank orders search targets by how directly they identify a
// renderer. Lower wins.
func targetRank(st string) int {
	switch {
	case strings.Contains(st, "AVTransport"):
		return 0
	case strings.Contains(st, "MediaRenderer"):
		return 1
	case st == "upnp:rootdevice":
		return 2
	default:
		return 3
	}
}

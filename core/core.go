// Package core has the visualization logic of bountyviz: it reads marketplace
// records through a store and shapes them into chart payloads.
package core

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/schema"
	"go.uber.org/zap"
)

// Visualizer builds every chart payload for one store and config.
// Each call is request-scoped and shares no state with other calls
// except the random source used for synthetic graph edges.
type Visualizer struct {
	store  contract.BountyStore
	cfg    *contract.Config
	now    func() time.Time
	rng    *rand.Rand
	logger *zap.Logger
}

// Option customizes a Visualizer.
type Option func(*Visualizer)

// WithClock overrides the clock used for time windows.
func WithClock(now func() time.Time) Option {
	return func(v *Visualizer) {
		if now != nil {
			v.now = now
		}
	}
}

// WithSeed makes synthetic graph edges reproducible.
func WithSeed(seed uint64) Option {
	return func(v *Visualizer) {
		v.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger overrides the process logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Visualizer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewVisualizer creates a Visualizer reading from store.
func NewVisualizer(store contract.BountyStore, cfg *contract.Config, opts ...Option) *Visualizer {
	if cfg == nil {
		cfg = contract.DefaultConfig()
	}
	v := &Visualizer{
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		logger: contract.Logger(),
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	WithSeed(seed)(v)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// network returns the bounty network the visualizations read.
func (v *Visualizer) network() string {
	if v.cfg.Network == "" {
		return schema.DefaultNetwork
	}
	return v.cfg.Network
}

// ResolveOption returns key when it is one of options, the first option otherwise.
// A key is kept as-is when there are no options to fall back to.
func ResolveOption(options []string, key string) string {
	if len(options) == 0 || slices.Contains(options, key) {
		return key
	}
	return options[0]
}

// sortedUnique returns the distinct non-empty values in ascending order.
func sortedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// uniqueInOrder returns the distinct values in first-seen order.
func uniqueInOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, s := range values {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// formatNumber renders a float the shortest way that round-trips.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

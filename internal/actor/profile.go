// Package actor aggregates events and taxonomy hits into per-actor summary
// profiles.
package actor

import (
	"sort"
	"strings"

	"github.com/lvonguyen/intelgraph/internal/model"
)

// UnknownActor is the group key used for events with a blank actor field.
const UnknownActor = "unknown"

const maxTopTechniques = 6

// BuildProfiles groups events by actor and summarizes each group: event
// count, distinct non-empty sources, distinct non-empty indicator and wallet
// counts, and up to six distinct technique IDs (sorted ascending) from
// taxonomy hits matching the actor. Output is sorted by event count
// descending with actor name ascending as the tie-break.
func BuildProfiles(events []model.Event, hits []model.TaxonomyHit) []model.ActorProfile {
	if len(events) == 0 {
		return nil
	}

	techniques := make(map[string]map[string]struct{})
	for _, h := range hits {
		if techniques[h.Actor] == nil {
			techniques[h.Actor] = make(map[string]struct{})
		}
		if h.TechniqueID != "" {
			techniques[h.Actor][h.TechniqueID] = struct{}{}
		}
	}

	type group struct {
		count      int
		sources    map[string]struct{}
		indicators map[string]struct{}
		wallets    map[string]struct{}
	}
	groups := make(map[string]*group)

	for _, ev := range events {
		name := strings.TrimSpace(ev.Actor)
		if name == "" {
			name = UnknownActor
		}
		g := groups[name]
		if g == nil {
			g = &group{
				sources:    make(map[string]struct{}),
				indicators: make(map[string]struct{}),
				wallets:    make(map[string]struct{}),
			}
			groups[name] = g
		}
		g.count++
		if ev.Source != "" {
			g.sources[ev.Source] = struct{}{}
		}
		if ev.IndicatorValue != "" {
			g.indicators[ev.IndicatorValue] = struct{}{}
		}
		if ev.Wallet != "" {
			g.wallets[ev.Wallet] = struct{}{}
		}
	}

	profiles := make([]model.ActorProfile, 0, len(groups))
	for name, g := range groups {
		sources := make([]string, 0, len(g.sources))
		for s := range g.sources {
			sources = append(sources, s)
		}
		sort.Strings(sources)

		var top []string
		for id := range techniques[name] {
			top = append(top, id)
		}
		sort.Strings(top)
		if len(top) > maxTopTechniques {
			top = top[:maxTopTechniques]
		}

		profiles = append(profiles, model.ActorProfile{
			Actor:          name,
			EventCount:     g.count,
			Sources:        strings.Join(sources, ", "),
			IndicatorCount: len(g.indicators),
			WalletCount:    len(g.wallets),
			TopTechniques:  strings.Join(top, ", "),
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].EventCount != profiles[j].EventCount {
			return profiles[i].EventCount > profiles[j].EventCount
		}
		return profiles[i].Actor < profiles[j].Actor
	})
	return profiles
}

package actor

import (
	"strings"
	"testing"

	"github.com/lvonguyen/intelgraph/internal/model"
)

// TestBuildProfiles_Aggregation verifies per-actor counts, distinct source
// and indicator accounting, and technique rollup from taxonomy hits.
func TestBuildProfiles_Aggregation(t *testing.T) {
	events := []model.Event{
		{EventID: "E-1", Actor: "GhostNova", Source: "forum", IndicatorValue: "1.2.3.4", Wallet: "bc1qa"},
		{EventID: "E-2", Actor: "GhostNova", Source: "paste", IndicatorValue: "1.2.3.4", Wallet: "bc1qb"},
		{EventID: "E-3", Actor: "RedHydra", Source: "report", IndicatorValue: "evil.example", Wallet: ""},
	}
	hits := []model.TaxonomyHit{
		{EventID: "E-1", Actor: "GhostNova", TechniqueID: "T1566"},
		{EventID: "E-2", Actor: "GhostNova", TechniqueID: "T1486"},
		{EventID: "E-2", Actor: "GhostNova", TechniqueID: "T1486"},
	}

	profiles := BuildProfiles(events, hits)
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(profiles))
	}

	p := profiles[0]
	if p.Actor != "GhostNova" {
		t.Fatalf("first profile should be the busiest actor, got %q", p.Actor)
	}
	if p.EventCount != 2 {
		t.Errorf("event count = %d, want 2", p.EventCount)
	}
	if p.Sources != "forum, paste" {
		t.Errorf("sources = %q, want sorted distinct join", p.Sources)
	}
	if p.IndicatorCount != 1 {
		t.Errorf("indicator count = %d, want 1 (distinct values)", p.IndicatorCount)
	}
	if p.WalletCount != 2 {
		t.Errorf("wallet count = %d, want 2", p.WalletCount)
	}
	if p.TopTechniques != "T1486, T1566" {
		t.Errorf("top techniques = %q, want sorted distinct ids", p.TopTechniques)
	}
}

// TestBuildProfiles_BlankActorIsUnknown verifies blank actors group under
// the literal value "unknown".
func TestBuildProfiles_BlankActorIsUnknown(t *testing.T) {
	events := []model.Event{
		{EventID: "E-1", Actor: "", Source: "forum"},
		{EventID: "E-2", Actor: "   ", Source: "paste"},
	}

	profiles := BuildProfiles(events, nil)
	if len(profiles) != 1 {
		t.Fatalf("profiles = %d, want 1", len(profiles))
	}
	if profiles[0].Actor != UnknownActor {
		t.Errorf("actor = %q, want %q", profiles[0].Actor, UnknownActor)
	}
	if profiles[0].EventCount != 2 {
		t.Errorf("event count = %d, want 2", profiles[0].EventCount)
	}
}

// TestBuildProfiles_TechniqueCap verifies at most six technique IDs appear,
// sorted ascending.
func TestBuildProfiles_TechniqueCap(t *testing.T) {
	events := []model.Event{{EventID: "E-1", Actor: "A"}}
	ids := []string{"T1008", "T1003", "T1021", "T1041", "T1059", "T1071", "T1110", "T1486"}
	var hits []model.TaxonomyHit
	for _, id := range ids {
		hits = append(hits, model.TaxonomyHit{Actor: "A", TechniqueID: id})
	}

	profiles := BuildProfiles(events, hits)
	got := strings.Split(profiles[0].TopTechniques, ", ")
	if len(got) != 6 {
		t.Fatalf("techniques = %d, want 6", len(got))
	}
	if got[0] != "T1003" {
		t.Errorf("techniques should be sorted ascending, first = %q", got[0])
	}
}

// TestBuildProfiles_TieBreak verifies equal event counts order by actor name
// ascending.
func TestBuildProfiles_TieBreak(t *testing.T) {
	events := []model.Event{
		{EventID: "E-1", Actor: "Zeta"},
		{EventID: "E-2", Actor: "Alpha"},
	}

	profiles := BuildProfiles(events, nil)
	if profiles[0].Actor != "Alpha" || profiles[1].Actor != "Zeta" {
		t.Errorf("tie should order by actor name: %+v", profiles)
	}
}

// TestBuildProfiles_EmptyEvents verifies empty input yields no profiles.
func TestBuildProfiles_EmptyEvents(t *testing.T) {
	if profiles := BuildProfiles(nil, nil); len(profiles) != 0 {
		t.Errorf("profiles = %d, want 0", len(profiles))
	}
}

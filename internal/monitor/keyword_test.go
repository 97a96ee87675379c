package monitor

import (
	"testing"

	"github.com/lvonguyen/intelgraph/internal/model"
)

// TestScan_SingleKeywordHit verifies that one matching keyword yields exactly
// one hit carrying the cleaned keyword.
func TestScan_SingleKeywordHit(t *testing.T) {
	feed := []model.KeywordFeedItem{
		{Timestamp: "2026-02-20T10:00:00Z", Source: "forum", Content: "New phishing panel"},
	}

	hits := New(nil).Scan(feed, []string{"phishing"})
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].Keyword != "phishing" {
		t.Errorf("keyword = %q, want %q", hits[0].Keyword, "phishing")
	}
	if hits[0].Content != "New phishing panel" {
		t.Errorf("content should be preserved verbatim, got %q", hits[0].Content)
	}
}

// TestScan_CaseInsensitive verifies that mixed-case keywords and content
// still match.
func TestScan_CaseInsensitive(t *testing.T) {
	feed := []model.KeywordFeedItem{
		{Source: "forum", Content: "New PHISHING panel"},
	}

	hits := New(nil).Scan(feed, []string{"PhIsHiNg"})
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].Keyword != "phishing" {
		t.Errorf("keyword should be emitted lower-cased, got %q", hits[0].Keyword)
	}
}

// TestScan_SubstringSemantics verifies substring matching without word
// boundaries: "ran" matches "ransom".
func TestScan_SubstringSemantics(t *testing.T) {
	feed := []model.KeywordFeedItem{
		{Source: "paste", Content: "ransom note posted"},
	}

	if hits := New(nil).Scan(feed, []string{"ran"}); len(hits) != 1 {
		t.Errorf("substring keyword should match, got %d hits", len(hits))
	}
}

// TestScan_MultipleKeywordsPerItem verifies one hit row per matching keyword
// on the same feed item.
func TestScan_MultipleKeywordsPerItem(t *testing.T) {
	feed := []model.KeywordFeedItem{
		{Source: "chat", Content: "phishing kit with ransomware dropper"},
	}

	hits := New(nil).Scan(feed, []string{"phishing", "ransomware", "botnet"})
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
}

// TestScan_DegradedInputs verifies empty feed, empty keyword list, and
// blank-only keywords all yield no hits rather than an error.
func TestScan_DegradedInputs(t *testing.T) {
	feed := []model.KeywordFeedItem{{Source: "forum", Content: "anything"}}

	tests := []struct {
		name     string
		feed     []model.KeywordFeedItem
		keywords []string
	}{
		{"empty feed", nil, []string{"phishing"}},
		{"empty keywords", feed, nil},
		{"blank keywords", feed, []string{"", "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hits := New(nil).Scan(tt.feed, tt.keywords); len(hits) != 0 {
				t.Errorf("hits = %d, want 0", len(hits))
			}
		})
	}
}

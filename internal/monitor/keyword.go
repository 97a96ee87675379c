// Package monitor scans free-text feed items for configured keywords.
package monitor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lvonguyen/intelgraph/internal/model"
)

// Monitor matches keyword substrings against feed content.
type Monitor struct {
	logger *zap.Logger
}

// New creates a keyword monitor. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{logger: logger.Named("keyword_monitor")}
}

// Scan emits one hit per (feed item, matched keyword) pair. Keywords are
// trimmed and lower-cased up front; blanks are discarded. Matching is
// case-insensitive substring containment, so "ran" matches "ransom".
func (m *Monitor) Scan(feed []model.KeywordFeedItem, keywords []string) []model.KeywordHit {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(feed) == 0 || len(cleaned) == 0 {
		return nil
	}

	var hits []model.KeywordHit
	for _, item := range feed {
		content := strings.ToLower(item.Content)
		for _, keyword := range cleaned {
			if strings.Contains(content, keyword) {
				hits = append(hits, model.KeywordHit{
					Timestamp: item.Timestamp,
					Source:    item.Source,
					Content:   item.Content,
					Keyword:   keyword,
				})
			}
		}
	}

	m.logger.Debug("keyword scan complete",
		zap.Int("feed_items", len(feed)),
		zap.Int("keywords", len(cleaned)),
		zap.Int("hits", len(hits)),
	)
	return hits
}

// Package taxonomy maps event descriptions to tactic/technique rules using
// a keyword rule table loaded once at construction.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/lvonguyen/intelgraph/internal/model"
)

// Rule binds a keyword to a tactic and technique.
type Rule struct {
	Keyword       string `json:"keyword"`
	Tactic        string `json:"tactic"`
	TechniqueID   string `json:"technique_id"`
	TechniqueName string `json:"technique_name"`
}

// Mapper scans event descriptions against the rule table. The table is
// immutable for the mapper's lifetime.
type Mapper struct {
	rules  []Rule
	logger *zap.Logger
}

// New creates a mapper from a JSON rule file. An empty path selects the
// built-in default table. A missing or malformed file is a construction
// error: the mapper cannot function without its rules.
func New(rulePath string, logger *zap.Logger) (*Mapper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("taxonomy_mapper")

	rules := DefaultRules()
	if rulePath != "" {
		data, err := os.ReadFile(rulePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read taxonomy rules: %w", err)
		}
		rules = nil
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("failed to parse taxonomy rules: %w", err)
		}
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("taxonomy rule table is empty")
	}

	logger.Info("taxonomy rules loaded",
		zap.Int("rules", len(rules)),
		zap.String("path", rulePath),
	)
	return &Mapper{rules: rules, logger: logger}, nil
}

// Rules returns a copy of the loaded rule table.
func (m *Mapper) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	copy(out, m.rules)
	return out
}

// MapEvents emits one hit per (event, matched rule) pair, matching each
// rule's keyword case-insensitively as a substring of the event description.
// Events with empty descriptions simply produce no hits.
func (m *Mapper) MapEvents(events []model.Event) []model.TaxonomyHit {
	if len(events) == 0 {
		return nil
	}

	var hits []model.TaxonomyHit
	for _, ev := range events {
		text := strings.ToLower(ev.Description)
		if text == "" {
			continue
		}
		for _, rule := range m.rules {
			keyword := strings.ToLower(rule.Keyword)
			if keyword == "" || !strings.Contains(text, keyword) {
				continue
			}
			hits = append(hits, model.TaxonomyHit{
				EventID:       ev.EventID,
				Actor:         ev.Actor,
				Keyword:       keyword,
				Tactic:        rule.Tactic,
				TechniqueID:   rule.TechniqueID,
				TechniqueName: rule.TechniqueName,
			})
		}
	}

	m.logger.Debug("taxonomy mapping complete",
		zap.Int("events", len(events)),
		zap.Int("hits", len(hits)),
	)
	return hits
}

// DefaultRules returns the built-in keyword rule table.
func DefaultRules() []Rule {
	return []Rule{
		{Keyword: "phishing", Tactic: "Initial Access", TechniqueID: "T1566", TechniqueName: "Phishing"},
		{Keyword: "credential", Tactic: "Credential Access", TechniqueID: "T1003", TechniqueName: "OS Credential Dumping"},
		{Keyword: "brute force", Tactic: "Credential Access", TechniqueID: "T1110", TechniqueName: "Brute Force"},
		{Keyword: "powershell", Tactic: "Execution", TechniqueID: "T1059.001", TechniqueName: "PowerShell"},
		{Keyword: "ransom", Tactic: "Impact", TechniqueID: "T1486", TechniqueName: "Data Encrypted for Impact"},
		{Keyword: "encryption", Tactic: "Impact", TechniqueID: "T1486", TechniqueName: "Data Encrypted for Impact"},
		{Keyword: "exfiltration", Tactic: "Exfiltration", TechniqueID: "T1041", TechniqueName: "Exfiltration Over C2 Channel"},
		{Keyword: "c2", Tactic: "Command and Control", TechniqueID: "T1071", TechniqueName: "Application Layer Protocol"},
		{Keyword: "callback", Tactic: "Command and Control", TechniqueID: "T1071", TechniqueName: "Application Layer Protocol"},
		{Keyword: "lateral movement", Tactic: "Lateral Movement", TechniqueID: "T1021", TechniqueName: "Remote Services"},
		{Keyword: "remote services", Tactic: "Lateral Movement", TechniqueID: "T1021", TechniqueName: "Remote Services"},
		{Keyword: "scheduled task", Tactic: "Persistence", TechniqueID: "T1053.005", TechniqueName: "Scheduled Task"},
		{Keyword: "obfuscat", Tactic: "Defense Evasion", TechniqueID: "T1027", TechniqueName: "Obfuscated Files or Information"},
		{Keyword: "dga", Tactic: "Command and Control", TechniqueID: "T1568.002", TechniqueName: "Domain Generation Algorithms"},
	}
}

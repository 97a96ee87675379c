// Package commonpoint mines structured indicators out of free text and
// ranks them by how many independent documents mention them.
package commonpoint

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lvonguyen/intelgraph/internal/model"
)

// Document is one synthetic text unit fed into extraction. Label identifies
// it in evidence lists.
type Document struct {
	Label string
	Text  string
}

const (
	// DefaultMinSupport keeps only points seen in at least this many documents.
	DefaultMinSupport = 2
	// DefaultTopN caps the ranked output.
	DefaultTopN = 40
	// maxEvidence caps document labels attached to a point.
	maxEvidence = 3
)

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "and": {}, "are": {}, "been": {},
	"between": {}, "but": {}, "can": {}, "could": {}, "data": {}, "does": {},
	"each": {}, "for": {}, "from": {}, "have": {}, "into": {}, "just": {},
	"more": {}, "most": {}, "news": {}, "not": {}, "our": {}, "over": {},
	"than": {}, "that": {}, "the": {}, "their": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "those": {}, "using": {}, "what": {}, "when": {},
	"which": {}, "while": {}, "with": {}, "your": {},
}

var (
	cveRe       = regexp.MustCompile(`(?i)\bCVE-\d{4}-\d{4,7}\b`)
	techniqueRe = regexp.MustCompile(`(?i)\bT\d{4}(?:\.\d{3})?\b`)
	ipv4Re      = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`)
	urlRe       = regexp.MustCompile(`(?i)https?://[^\s"'<>]+`)
	domainRe    = regexp.MustCompile(`(?i)\b(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,24}\b`)
	wordRe      = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_-]{3,}`)
)

// matcher extracts one point type from raw text. Matchers run in a fixed
// priority order so evidence and ranking stay reproducible per type.
type matcher struct {
	pointType model.PointType
	extract   func(raw string, add func(model.PointType, string))
}

func cleanURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), ".,);]}>")
}

func cleanValue(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), ".,;:()[]{}<>\"'")
}

func matchers() []matcher {
	return []matcher{
		{model.PointTypeCVE, func(raw string, add func(model.PointType, string)) {
			for _, m := range cveRe.FindAllString(raw, -1) {
				add(model.PointTypeCVE, strings.ToUpper(m))
			}
		}},
		{model.PointTypeTechnique, func(raw string, add func(model.PointType, string)) {
			for _, m := range techniqueRe.FindAllString(raw, -1) {
				add(model.PointTypeTechnique, strings.ToUpper(m))
			}
		}},
		{model.PointTypeIP, func(raw string, add func(model.PointType, string)) {
			for _, m := range ipv4Re.FindAllString(raw, -1) {
				add(model.PointTypeIP, m)
			}
		}},
		{model.PointTypeURL, func(raw string, add func(model.PointType, string)) {
			for _, m := range urlRe.FindAllString(raw, -1) {
				cleaned := cleanURL(m)
				add(model.PointTypeURL, cleaned)
				if u, err := url.Parse(cleaned); err == nil && u.Host != "" {
					add(model.PointTypeDomain, strings.ToLower(u.Host))
				}
			}
		}},
		{model.PointTypeDomain, func(raw string, add func(model.PointType, string)) {
			for _, m := range domainRe.FindAllString(raw, -1) {
				domain := strings.ToLower(cleanValue(m))
				if domain != "" && strings.Contains(domain, ".") {
					add(model.PointTypeDomain, domain)
				}
			}
		}},
		{model.PointTypeKeyword, func(raw string, add func(model.PointType, string)) {
			for _, token := range wordRe.FindAllString(strings.ToLower(raw), -1) {
				if _, stop := stopwords[token]; stop {
					continue
				}
				add(model.PointTypeKeyword, token)
			}
		}},
	}
}

// typePriority orders equal-support points: cve, mitre_technique, domain,
// ip, url, keyword.
var typePriority = map[model.PointType]int{
	model.PointTypeCVE:       0,
	model.PointTypeTechnique: 1,
	model.PointTypeDomain:    2,
	model.PointTypeIP:        3,
	model.PointTypeURL:       4,
	model.PointTypeKeyword:   5,
}

// Extractor mines common points from document collections.
type Extractor struct {
	minSupport int
	topN       int
	logger     *zap.Logger
}

// New creates an extractor. Non-positive knobs fall back to the defaults.
func New(minSupport, topN int, logger *zap.Logger) *Extractor {
	if minSupport <= 0 {
		minSupport = DefaultMinSupport
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		minSupport: minSupport,
		topN:       topN,
		logger:     logger.Named("common_points"),
	}
}

type pointKey struct {
	pointType model.PointType
	value     string
}

// Extract counts document frequency for every (type, value) pair across the
// documents, keeps pairs supported by at least minSupport documents, and
// returns them ranked by support desc, type priority, then value. Each
// distinct pair counts once per document no matter how often it repeats in
// that document's text.
func (e *Extractor) Extract(docs []Document) []model.CommonPoint {
	if len(docs) == 0 {
		return nil
	}

	support := make(map[pointKey]int)
	evidence := make(map[pointKey][]string)

	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}
		seen := make(map[pointKey]struct{})
		add := func(pt model.PointType, value string) {
			key := pointKey{pointType: pt, value: value}
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			support[key]++
			if len(evidence[key]) < maxEvidence {
				evidence[key] = append(evidence[key], doc.Label)
			}
		}
		for _, m := range matchers() {
			m.extract(doc.Text, add)
		}
	}

	var points []model.CommonPoint
	for key, count := range support {
		if count < e.minSupport {
			continue
		}
		points = append(points, model.CommonPoint{
			PointType: key.pointType,
			Value:     key.value,
			Support:   count,
			Evidence:  strings.Join(evidence[key], ", "),
		})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Support != points[j].Support {
			return points[i].Support > points[j].Support
		}
		pi, pj := typePriority[points[i].PointType], typePriority[points[j].PointType]
		if pi != pj {
			return pi < pj
		}
		return points[i].Value < points[j].Value
	})

	if len(points) > e.topN {
		points = points[:e.topN]
	}

	e.logger.Debug("common point extraction complete",
		zap.Int("documents", len(docs)),
		zap.Int("points", len(points)),
	)
	return points
}

// BuildDocuments converts the batch's tabular inputs into synthetic
// documents, concatenating the text-bearing fields of each row. Blank rows
// are skipped. Labels prefer the row's source field and fall back to a
// positional label.
func BuildDocuments(batch model.Batch) []Document {
	var docs []Document

	appendDoc := func(text, label string) {
		text = strings.TrimSpace(text)
		if text != "" {
			docs = append(docs, Document{Label: label, Text: text})
		}
	}

	for i, ev := range batch.Events {
		label := ev.Source
		if label == "" {
			label = "event_" + strconv.Itoa(i+1)
		}
		appendDoc(strings.Join([]string{ev.EventID, ev.Source, ev.Description, ev.IndicatorValue}, " "), label)
	}
	for i, item := range batch.KeywordFeed {
		label := item.Source
		if label == "" {
			label = "feed_" + strconv.Itoa(i+1)
		}
		appendDoc(strings.Join([]string{item.Source, item.Content}, " "), label)
	}
	for i, src := range batch.Sources {
		label := src.SourceEngine
		if label == "" {
			label = "source_" + strconv.Itoa(i+1)
		}
		appendDoc(strings.Join([]string{src.Title, src.Snippet, src.URL}, " "), label)
	}
	for i, page := range batch.Pages {
		label := page.Source
		if label == "" {
			label = "page_" + strconv.Itoa(i+1)
		}
		appendDoc(strings.Join([]string{page.Title, page.Summary, page.Link}, " "), label)
	}

	return docs
}


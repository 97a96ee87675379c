// Package analysis orchestrates the correlation stages over one input
// batch and assembles the result bundle.
package analysis

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lvonguyen/intelgraph/internal/actor"
	"github.com/lvonguyen/intelgraph/internal/commonpoint"
	"github.com/lvonguyen/intelgraph/internal/config"
	"github.com/lvonguyen/intelgraph/internal/fingerprint"
	"github.com/lvonguyen/intelgraph/internal/graph"
	"github.com/lvonguyen/intelgraph/internal/model"
	"github.com/lvonguyen/intelgraph/internal/monitor"
	"github.com/lvonguyen/intelgraph/internal/observability"
	"github.com/lvonguyen/intelgraph/internal/taxonomy"
	"github.com/lvonguyen/intelgraph/internal/wallet"
)

// Result is the derived-artifact bundle of one analysis run.
type Result struct {
	KeywordHits        []model.KeywordHit       `json:"keyword_hits"`
	TaxonomyHits       []model.TaxonomyHit      `json:"taxonomy_hits"`
	ActorProfiles      []model.ActorProfile     `json:"actor_profiles"`
	WalletClusters     []model.WalletClusterRow `json:"wallet_clusters"`
	FingerprintMatches []model.FingerprintMatch `json:"fingerprint_matches"`
	CommonPoints       []model.CommonPoint      `json:"common_points"`
	Graph              graph.Export             `json:"graph"`
}

// Engine runs the correlation stages. All stages are pure transformations
// over the batch snapshot; the engine itself is safe for concurrent use.
type Engine struct {
	mapper          *taxonomy.Mapper
	monitor         *monitor.Monitor
	clusterer       *wallet.Clusterer
	extractor       *commonpoint.Extractor
	defaultKeywords []string
	metrics         *observability.Metrics
	logger          *zap.Logger
}

// NewEngine constructs the engine. Taxonomy rule loading happens here; a
// malformed rule file fails construction.
func NewEngine(cfg config.AnalysisConfig, logger *zap.Logger, metrics *observability.Metrics) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mapper, err := taxonomy.New(cfg.TaxonomyRulesPath, logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		mapper:          mapper,
		monitor:         monitor.New(logger),
		clusterer:       wallet.New(logger),
		extractor:       commonpoint.New(cfg.MinSupport, cfg.TopN, logger),
		defaultKeywords: cfg.DefaultKeywords,
		metrics:         metrics,
		logger:          logger.Named("analysis"),
	}, nil
}

// Rules exposes the loaded taxonomy rule table.
func (e *Engine) Rules() []taxonomy.Rule {
	return e.mapper.Rules()
}

// Analyze runs every stage over the batch and assembles the bundle.
// Independent stages run in parallel; the actor profiler waits on the
// taxonomy mapper and the graph builder waits on the mapper and clusterer.
// Missing input tables degrade to empty stage outputs.
func (e *Engine) Analyze(ctx context.Context, batch model.Batch) *Result {
	start := time.Now()
	result := &Result{}

	keywords := batch.Keywords
	if len(keywords) == 0 {
		keywords = e.defaultKeywords
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		result.KeywordHits = e.monitor.Scan(batch.KeywordFeed, keywords)
	}()
	go func() {
		defer wg.Done()
		result.TaxonomyHits = e.mapper.MapEvents(batch.Events)
	}()
	go func() {
		defer wg.Done()
		result.WalletClusters = e.clusterer.Cluster(batch.Transactions, batch.BadWallets)
	}()
	go func() {
		defer wg.Done()
		result.FingerprintMatches = fingerprint.Match(batch.AssetHashes, batch.ObservedHashes)
		result.CommonPoints = e.extractor.Extract(commonpoint.BuildDocuments(batch))
	}()
	wg.Wait()

	result.ActorProfiles = actor.BuildProfiles(batch.Events, result.TaxonomyHits)
	result.Graph = graph.Build(batch.Events, result.TaxonomyHits, result.WalletClusters, e.logger).ToExport()

	e.record(result, time.Since(start))
	e.logger.Info("analysis complete",
		zap.Int("events", len(batch.Events)),
		zap.Int("keyword_hits", len(result.KeywordHits)),
		zap.Int("taxonomy_hits", len(result.TaxonomyHits)),
		zap.Int("wallet_clusters", len(result.WalletClusters)),
		zap.Int("fingerprint_matches", len(result.FingerprintMatches)),
		zap.Int("common_points", len(result.CommonPoints)),
		zap.Int("graph_nodes", result.Graph.NodeCount),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

func (e *Engine) record(result *Result, elapsed time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	e.metrics.AnalysisDuration.Observe(elapsed.Seconds())
	e.metrics.StageRows.WithLabelValues("keyword_hits").Add(float64(len(result.KeywordHits)))
	e.metrics.StageRows.WithLabelValues("taxonomy_hits").Add(float64(len(result.TaxonomyHits)))
	e.metrics.StageRows.WithLabelValues("actor_profiles").Add(float64(len(result.ActorProfiles)))
	e.metrics.StageRows.WithLabelValues("wallet_clusters").Add(float64(len(result.WalletClusters)))
	e.metrics.StageRows.WithLabelValues("fingerprint_matches").Add(float64(len(result.FingerprintMatches)))
	e.metrics.StageRows.WithLabelValues("common_points").Add(float64(len(result.CommonPoints)))
	e.metrics.GraphNodes.Set(float64(result.Graph.NodeCount))
	e.metrics.GraphEdges.Set(float64(result.Graph.EdgeCount))
}

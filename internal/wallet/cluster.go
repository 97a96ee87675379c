// Package wallet builds an undirected graph over transaction participants
// and extracts connected components as wallet clusters.
package wallet

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lvonguyen/intelgraph/internal/model"
)

// txGraph is an explicit adjacency structure over wallet strings. Nodes are
// kept in first-seen order so component discovery is deterministic.
type txGraph struct {
	order    []string
	adjacent map[string]map[string]struct{}
}

func newTxGraph() *txGraph {
	return &txGraph{adjacent: make(map[string]map[string]struct{})}
}

func (g *txGraph) addNode(wallet string) {
	if _, ok := g.adjacent[wallet]; ok {
		return
	}
	g.adjacent[wallet] = make(map[string]struct{})
	g.order = append(g.order, wallet)
}

func (g *txGraph) addEdge(a, b string) {
	g.addNode(a)
	g.addNode(b)
	g.adjacent[a][b] = struct{}{}
	g.adjacent[b][a] = struct{}{}
}

// components returns connected components in discovery order: a breadth-first
// sweep from each not-yet-visited node, visiting nodes in insertion order.
func (g *txGraph) components() [][]string {
	visited := make(map[string]struct{}, len(g.order))
	var comps [][]string

	for _, start := range g.order {
		if _, done := visited[start]; done {
			continue
		}
		var members []string
		queue := []string{start}
		visited[start] = struct{}{}
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			members = append(members, node)
			neighbors := make([]string, 0, len(g.adjacent[node]))
			for n := range g.adjacent[node] {
				neighbors = append(neighbors, n)
			}
			sort.Strings(neighbors)
			for _, n := range neighbors {
				if _, done := visited[n]; !done {
					visited[n] = struct{}{}
					queue = append(queue, n)
				}
			}
		}
		comps = append(comps, members)
	}
	return comps
}

// Clusterer groups wallets by transfer and co-spend relations.
type Clusterer struct {
	logger *zap.Logger
}

// New creates a wallet clusterer. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *Clusterer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clusterer{logger: logger.Named("wallet_cluster")}
}

// Cluster builds the participant graph and emits one row per wallet per
// cluster. Transfer edges link sender and receiver of each transaction;
// co-spend edges link every pair of distinct senders sharing a tx_hash.
// Cluster IDs are assigned in component discovery order as C0001, C0002, …
// and rows are sorted by cluster size descending, then cluster ID. Wallets
// present in badWallets are tagged flagged. Empty input yields no rows.
func (c *Clusterer) Cluster(txs []model.Transaction, badWallets []string) []model.WalletClusterRow {
	if len(txs) == 0 {
		return nil
	}

	g := newTxGraph()
	senders := make(map[string]map[string]struct{})

	for _, tx := range txs {
		src := strings.TrimSpace(tx.FromWallet)
		dst := strings.TrimSpace(tx.ToWallet)
		if src != "" {
			g.addNode(src)
		}
		if dst != "" {
			g.addNode(dst)
		}
		if src != "" && dst != "" {
			g.addEdge(src, dst)
		}
		if src != "" {
			hash := strings.TrimSpace(tx.TxHash)
			if senders[hash] == nil {
				senders[hash] = make(map[string]struct{})
			}
			senders[hash][src] = struct{}{}
		}
	}

	// Common-input-ownership heuristic: all senders of one transaction are
	// assumed commonly controlled.
	hashes := make([]string, 0, len(senders))
	for hash := range senders {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)
	for _, hash := range hashes {
		group := make([]string, 0, len(senders[hash]))
		for w := range senders[hash] {
			group = append(group, w)
		}
		if len(group) < 2 {
			continue
		}
		sort.Strings(group)
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				g.addEdge(group[i], group[j])
			}
		}
	}

	bad := make(map[string]struct{}, len(badWallets))
	for _, w := range badWallets {
		if w = strings.TrimSpace(w); w != "" {
			bad[w] = struct{}{}
		}
	}

	var rows []model.WalletClusterRow
	for idx, comp := range g.components() {
		members := append([]string(nil), comp...)
		sort.Strings(members)
		clusterID := fmt.Sprintf("C%04d", idx+1)
		for _, w := range members {
			tag := model.RiskTagUnlabeled
			if _, flagged := bad[w]; flagged {
				tag = model.RiskTagFlagged
			}
			rows = append(rows, model.WalletClusterRow{
				Wallet:      w,
				ClusterID:   clusterID,
				ClusterSize: len(members),
				RiskTag:     tag,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ClusterSize != rows[j].ClusterSize {
			return rows[i].ClusterSize > rows[j].ClusterSize
		}
		return rows[i].ClusterID < rows[j].ClusterID
	})

	c.logger.Debug("wallet clustering complete",
		zap.Int("transactions", len(txs)),
		zap.Int("rows", len(rows)),
	)
	return rows
}

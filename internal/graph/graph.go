// Package graph assembles the typed entity-relationship graph fusing
// events, taxonomy hits, and wallet clusters.
package graph

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lvonguyen/intelgraph/internal/model"
)

// NodeType classifies a graph node.
type NodeType string

const (
	NodeTypeEvent         NodeType = "event"
	NodeTypeActor         NodeType = "actor"
	NodeTypeIndicator     NodeType = "indicator"
	NodeTypeWallet        NodeType = "wallet"
	NodeTypeWalletCluster NodeType = "wallet_cluster"
	NodeTypeTechnique     NodeType = "mitre_technique"
)

// Node is one graph entity.
type Node struct {
	ID   string   `json:"id"`
	Type NodeType `json:"type"`
}

// Edge is one undirected relation between two nodes.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// edgeKey identifies an undirected edge: endpoints in canonical order plus
// the relation label, so duplicate insertions collapse.
type edgeKey struct {
	a, b     string
	relation string
}

func keyFor(a, b, relation string) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{a: a, b: b, relation: relation}
}

// Graph is an explicit node table plus a deduplicated undirected edge set.
type Graph struct {
	nodes     map[string]NodeType
	nodeOrder []string
	edges     map[edgeKey]Edge
	logger    *zap.Logger
}

// New creates an empty graph. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		nodes:  make(map[string]NodeType),
		edges:  make(map[edgeKey]Edge),
		logger: logger.Named("knowledge_graph"),
	}
}

// AddNode inserts a node if absent. Insertion is idempotent and the type set
// on first insertion is kept: a later pass referencing the same identifier
// under a different role does not overwrite it. A value serving as both a
// wallet address and an indicator string therefore keeps whichever role was
// seen first; only synthetic cluster nodes are namespaced (cluster:<id>).
func (g *Graph) AddNode(id string, nodeType NodeType) {
	if id == "" {
		return
	}
	if _, exists := g.nodes[id]; exists {
		return
	}
	g.nodes[id] = nodeType
	g.nodeOrder = append(g.nodeOrder, id)
}

// AddEdge inserts an undirected edge if both endpoints are non-empty.
// Re-adding the same endpoint pair with the same relation is a no-op.
func (g *Graph) AddEdge(source, target, relation string) {
	if source == "" || target == "" {
		return
	}
	key := keyFor(source, target, relation)
	if _, exists := g.edges[key]; exists {
		return
	}
	g.edges[key] = Edge{Source: source, Target: target, Relation: relation}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodeType returns the type recorded for a node id.
func (g *Graph) NodeType(id string) (NodeType, bool) {
	t, ok := g.nodes[id]
	return t, ok
}

// HasEdge reports whether the undirected edge exists with the relation.
func (g *Graph) HasEdge(a, b, relation string) bool {
	_, ok := g.edges[keyFor(a, b, relation)]
	return ok
}

// Nodes returns the node list in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, Node{ID: id, Type: g.nodes[id]})
	}
	return out
}

// Edges returns the edge list sorted by source, target, then relation so any
// persistence or rendering layer sees a stable order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		if out[i].Target != out[j].Target {
			return out[i].Target < out[j].Target
		}
		return out[i].Relation < out[j].Relation
	})
	return out
}

// Export is the generic node-list/edge-list pair consumed by rendering and
// property-graph persistence layers.
type Export struct {
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

// ToExport snapshots the graph as a node-list/edge-list pair.
func (g *Graph) ToExport() Export {
	return Export{
		Nodes:     g.Nodes(),
		Edges:     g.Edges(),
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
	}
}

// Build fuses events, taxonomy hits, and wallet cluster rows into one graph.
//
// Pass one walks events, adding event/actor/indicator/wallet nodes and the
// attributed_to, contains_indicator, and references_wallet edges wherever
// both endpoints are non-empty. Pass two adds technique nodes and
// actor–technique uses_technique edges. Pass three adds one synthetic
// cluster:<cluster_id> node per cluster with contains_wallet edges to
// members.
func Build(
	events []model.Event,
	hits []model.TaxonomyHit,
	clusters []model.WalletClusterRow,
	logger *zap.Logger,
) *Graph {
	g := New(logger)

	for _, ev := range events {
		eventID := strings.TrimSpace(ev.EventID)
		actor := strings.TrimSpace(ev.Actor)
		indicator := strings.TrimSpace(ev.IndicatorValue)
		wallet := strings.TrimSpace(ev.Wallet)

		g.AddNode(eventID, NodeTypeEvent)
		g.AddNode(actor, NodeTypeActor)
		g.AddNode(indicator, NodeTypeIndicator)
		g.AddNode(wallet, NodeTypeWallet)

		if eventID != "" && actor != "" {
			g.AddEdge(eventID, actor, "attributed_to")
		}
		if eventID != "" && indicator != "" {
			g.AddEdge(eventID, indicator, "contains_indicator")
		}
		if eventID != "" && wallet != "" {
			g.AddEdge(eventID, wallet, "references_wallet")
		}
	}

	for _, h := range hits {
		actor := strings.TrimSpace(h.Actor)
		techniqueID := strings.TrimSpace(h.TechniqueID)
		g.AddNode(techniqueID, NodeTypeTechnique)
		if actor != "" && techniqueID != "" {
			g.AddEdge(actor, techniqueID, "uses_technique")
		}
	}

	for _, row := range clusters {
		wallet := strings.TrimSpace(row.Wallet)
		if row.ClusterID == "" {
			continue
		}
		clusterNode := "cluster:" + row.ClusterID
		g.AddNode(clusterNode, NodeTypeWalletCluster)
		if wallet != "" {
			g.AddNode(wallet, NodeTypeWallet)
			g.AddEdge(clusterNode, wallet, "contains_wallet")
		}
	}

	g.logger.Debug("knowledge graph assembled",
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
	)
	return g
}

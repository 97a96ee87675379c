// Package model defines the typed records exchanged between the correlation
// stages. Upstream collaborators (CSV upload, feed connectors) validate
// columns before building these records; the core treats them as immutable.
package model

// Event is a single security event from any ingestion source.
// Identity is EventID; empty optional fields are "".
type Event struct {
	EventID        string `json:"event_id"`
	Timestamp      string `json:"timestamp"` // ISO-8601
	Source         string `json:"source"`
	Actor          string `json:"actor"`
	Description    string `json:"description"`
	IndicatorType  string `json:"indicator_type"`
	IndicatorValue string `json:"indicator_value"`
	Wallet         string `json:"wallet,omitempty"`
}

// KeywordFeedItem is one free-text item from a monitored feed.
type KeywordFeedItem struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Content   string `json:"content"`
}

// Transaction is one ledger transfer row. Several rows may share TxHash
// (multi-input transfer).
type Transaction struct {
	TxHash     string  `json:"tx_hash"`
	FromWallet string  `json:"from_wallet"`
	ToWallet   string  `json:"to_wallet"`
	Amount     float64 `json:"amount"`
	Timestamp  string  `json:"timestamp"`
}

// FingerprintRecord is one raw fingerprint value tracked for leak
// correlation.
type FingerprintRecord struct {
	Value string `json:"value"`
}

// ResearchSource is a search-engine result row fed into common-point mining.
type ResearchSource struct {
	Title        string `json:"title"`
	Snippet      string `json:"snippet"`
	URL          string `json:"url"`
	SourceEngine string `json:"source_engine"`
}

// ScrapedPage is a fetched page summary row fed into common-point mining.
type ScrapedPage struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
	Source  string `json:"source"`
}

// KeywordHit is one (feed item, matched keyword) pair.
type KeywordHit struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Content   string `json:"content"`
	Keyword   string `json:"keyword"`
}

// TaxonomyHit is one (event, matched rule) pair.
type TaxonomyHit struct {
	EventID       string `json:"event_id"`
	Actor         string `json:"actor"`
	Keyword       string `json:"keyword"`
	Tactic        string `json:"tactic"`
	TechniqueID   string `json:"technique_id"`
	TechniqueName string `json:"technique_name"`
}

// ActorProfile summarizes all events attributed to one actor.
type ActorProfile struct {
	Actor          string `json:"actor"`
	EventCount     int    `json:"event_count"`
	Sources        string `json:"sources"`
	IndicatorCount int    `json:"indicator_count"`
	WalletCount    int    `json:"wallet_count"`
	TopTechniques  string `json:"top_techniques"`
}

// RiskTag labels a clustered wallet.
type RiskTag string

const (
	RiskTagFlagged   RiskTag = "flagged"
	RiskTagUnlabeled RiskTag = "unlabeled"
)

// WalletClusterRow is one wallet's membership in a cluster.
type WalletClusterRow struct {
	Wallet      string  `json:"wallet"`
	ClusterID   string  `json:"cluster_id"`
	ClusterSize int     `json:"cluster_size"`
	RiskTag     RiskTag `json:"risk_tag"`
}

// FingerprintMatch is one asset/observed value pair sharing a digest.
type FingerprintMatch struct {
	AssetValue    string `json:"asset_value"`
	ObservedValue string `json:"observed_value"`
	SHA256        string `json:"sha256"`
}

// PointType classifies a common point.
type PointType string

const (
	PointTypeCVE       PointType = "cve"
	PointTypeTechnique PointType = "mitre_technique"
	PointTypeDomain    PointType = "domain"
	PointTypeIP        PointType = "ip"
	PointTypeURL       PointType = "url"
	PointTypeKeyword   PointType = "keyword"
)

// CommonPoint is an indicator or term recurring across independent
// documents. Evidence holds at most three document labels in first-seen
// order.
type CommonPoint struct {
	PointType PointType `json:"point_type"`
	Value     string    `json:"value"`
	Support   int       `json:"support"`
	Evidence  string    `json:"evidence"`
}

// Batch is one self-contained analysis input.
type Batch struct {
	Events         []Event             `json:"events"`
	KeywordFeed    []KeywordFeedItem   `json:"keyword_feed"`
	Keywords       []string            `json:"keywords"`
	Transactions   []Transaction       `json:"transactions"`
	AssetHashes    []FingerprintRecord `json:"asset_hashes"`
	ObservedHashes []FingerprintRecord `json:"observed_hashes"`
	BadWallets     []string            `json:"bad_wallets,omitempty"`
	Sources        []ResearchSource    `json:"sources,omitempty"`
	Pages          []ScrapedPage       `json:"pages,omitempty"`
}

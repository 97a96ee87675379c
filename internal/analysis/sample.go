package analysis

import "github.com/lvonguyen/intelgraph/internal/model"

// SampleBatch returns a self-contained demo batch so the service can be
// exercised without any upstream collaborator.
func SampleBatch() model.Batch {
	return model.Batch{
		Events: []model.Event{
			{
				EventID:        "E-1001",
				Timestamp:      "2026-02-20T11:10:00Z",
				Source:         "public_forum",
				Actor:          "GhostNova",
				Description:    "Phishing lure delivered with credential harvesting kit and C2 callback.",
				IndicatorType:  "domain",
				IndicatorValue: "signin-check-auth[.]com",
				Wallet:         "bc1qdemo001",
			},
			{
				EventID:        "E-1002",
				Timestamp:      "2026-02-20T15:50:00Z",
				Source:         "paste_site",
				Actor:          "GhostNova",
				Description:    "Ransom negotiation note mentions exfiltration and data encryption.",
				IndicatorType:  "hash",
				IndicatorValue: "a9f231d1e09f0ea7d3f4a2f2dd9f7f6c5ea1f46377182ec5f6f9b7d5a1d0e001",
				Wallet:         "bc1qdemo002",
			},
			{
				EventID:        "E-1003",
				Timestamp:      "2026-02-21T02:01:00Z",
				Source:         "incident_report",
				Actor:          "RedHydra",
				Description:    "Lateral movement observed via remote services and scheduled task persistence.",
				IndicatorType:  "ip",
				IndicatorValue: "185.199.110.153",
				Wallet:         "",
			},
		},
		KeywordFeed: []model.KeywordFeedItem{
			{Timestamp: "2026-02-20T10:00:00Z", Source: "forum", Content: "New phishing panel with full credential support."},
			{Timestamp: "2026-02-20T17:20:00Z", Source: "chat_export", Content: "Data exfiltration complete, waiting for payment."},
			{Timestamp: "2026-02-21T08:05:00Z", Source: "paste", Content: "Noisy scanner traffic only."},
		},
		Keywords: []string{"phishing", "exfiltration", "payment"},
		Transactions: []model.Transaction{
			{TxHash: "tx001", FromWallet: "bc1qdemo001", ToWallet: "bc1qmix001", Amount: 1.2, Timestamp: "2026-02-20T11:30:00Z"},
			{TxHash: "tx001", FromWallet: "bc1qdemo002", ToWallet: "bc1qmix001", Amount: 0.8, Timestamp: "2026-02-20T11:30:00Z"},
			{TxHash: "tx002", FromWallet: "bc1qmix001", ToWallet: "bc1qout002", Amount: 1.9, Timestamp: "2026-02-20T12:15:00Z"},
		},
		AssetHashes: []model.FingerprintRecord{
			{Value: "employee1@contoso.com"},
			{Value: "Acme-Prod-Token-01"},
		},
		ObservedHashes: []model.FingerprintRecord{
			{Value: "employee1@contoso.com"},
			{Value: "unknown-sample"},
		},
		BadWallets: []string{"bc1qmix001"},
	}
}

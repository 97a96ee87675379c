// Package fingerprint normalizes tracked values to canonical SHA-256 digests
// and intersects asset and observed fingerprint sets for leak correlation.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/lvonguyen/intelgraph/internal/model"
)

var sha256Re = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

// Normalized is one fingerprint value with its canonical digest.
type Normalized struct {
	Value  string
	SHA256 string
}

// Digest returns the canonical digest for a value. Values that already look
// like a SHA-256 hex digest are lower-cased and used as-is; anything else is
// hashed. Both paths yield lower-case 64-character hex.
func Digest(value string) string {
	if sha256Re.MatchString(value) {
		return strings.ToLower(value)
	}
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Normalize digests every non-blank record value, dropping exact duplicate
// (value, digest) rows while preserving first-seen order.
func Normalize(records []model.FingerprintRecord) []Normalized {
	out := make([]Normalized, 0, len(records))
	seen := make(map[Normalized]struct{}, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.Value) == "" {
			continue
		}
		n := Normalized{Value: rec.Value, SHA256: Digest(rec.Value)}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Match joins asset and observed fingerprints on digest. It returns one row
// per (asset value, observed value) pair sharing a digest, and nothing when
// either side is empty. Output is ordered by digest, then asset value, then
// observed value.
func Match(assets, observed []model.FingerprintRecord) []model.FingerprintMatch {
	normAssets := Normalize(assets)
	normObserved := Normalize(observed)
	if len(normAssets) == 0 || len(normObserved) == 0 {
		return nil
	}

	byDigest := make(map[string][]string, len(normObserved))
	for _, n := range normObserved {
		byDigest[n.SHA256] = append(byDigest[n.SHA256], n.Value)
	}

	var matches []model.FingerprintMatch
	for _, a := range normAssets {
		for _, obsValue := range byDigest[a.SHA256] {
			matches = append(matches, model.FingerprintMatch{
				AssetValue:    a.Value,
				ObservedValue: obsValue,
				SHA256:        a.SHA256,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].SHA256 != matches[j].SHA256 {
			return matches[i].SHA256 < matches[j].SHA256
		}
		if matches[i].AssetValue != matches[j].AssetValue {
			return matches[i].AssetValue < matches[j].AssetValue
		}
		return matches[i].ObservedValue < matches[j].ObservedValue
	})
	return matches
}

// =============================================================================
// CTOS Report Extractor - Fragment Combiner
// =============================================================================
//
// One logical account's XML body is frequently split across several
// spreadsheet rows, and the same logical account can appear under several
// raw keys ("ACC1_1", "ACC1_2") that collapse to one key. The combiner
// rebuilds whole documents from that mess in three steps:
//
//   1. De-duplicate rows: a later row with the same (raw key, sequence)
//      pair replaces the earlier one. Last write wins, no merging.
//   2. Per raw key, order fragments by sequence key and concatenate the
//      raw text. Concatenation happens before any parsing so that
//      multi-record bodies split mid-element survive.
//   3. When collapsing raw keys leaves several candidate documents for
//      one logical account, pick the best representative with a
//      deterministic heuristic (see SelectBest).
//
// =============================================================================

package combiner

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ginjaninja78/ctos-report-extractor/internal/classifier"
	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
)

// Dedupe applies the import path's last-write-wins rule: when two rows
// share the same (account, sequence) pair, the later occurrence replaces
// the earlier one in place. Relative order of surviving rows is kept.
func Dedupe(fragments []types.Fragment) []types.Fragment {
	type key struct {
		account string
		seq     int
	}
	index := make(map[key]int)
	out := make([]types.Fragment, 0, len(fragments))
	for _, f := range fragments {
		k := key{f.Account, f.Seq}
		if i, seen := index[k]; seen {
			out[i] = f
			continue
		}
		index[k] = len(out)
		out = append(out, f)
	}
	return out
}

// GroupByAccount buckets fragments by their account key, preserving the
// order in which each key was first seen.
func GroupByAccount(fragments []types.Fragment) ([]string, map[string][]types.Fragment) {
	var order []string
	groups := make(map[string][]types.Fragment)
	for _, f := range fragments {
		if _, seen := groups[f.Account]; !seen {
			order = append(order, f.Account)
		}
		groups[f.Account] = append(groups[f.Account], f)
	}
	return order, groups
}

// Combine orders one account's fragments by sequence key and
// concatenates their raw text. The sort is stable so rows sharing a
// sequence key keep their input order.
func Combine(fragments []types.Fragment) string {
	sorted := make([]types.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Seq < sorted[j].Seq
	})

	var size int
	for _, f := range sorted {
		size += len(f.XML)
	}
	buf := make([]byte, 0, size)
	for _, f := range sorted {
		buf = append(buf, f.XML...)
	}
	return string(buf)
}

// SelectBest picks the single representative document from several
// sanitized candidates that collapsed onto one logical account key.
//
// The heuristic, in order:
//
//   1. Keep only candidates carrying a perfect marker (a primary report
//      or enquiry root). If none qualify, the first candidate in the
//      original order wins outright.
//   2. Among those, prefer candidates the signature set classifies as
//      NEW over OLD when both exist.
//   3. Tie-break on the highest opening-tag count, a density proxy for
//      "most complete document".
//   4. Remaining ties go to the first-seen candidate. This makes the
//      result order-dependent for exact ties, which is accepted
//      behavior, not an oversight.
func SelectBest(candidates []string, sig classifier.Signature, log *zap.Logger) string {
	if len(candidates) == 0 {
		return ""
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	var perfect []string
	for _, c := range candidates {
		if classifier.HasPerfectMarker(c) {
			perfect = append(perfect, c)
		}
	}
	if len(perfect) == 0 {
		log.Debug("no perfect candidate, keeping first",
			zap.Int("candidates", len(candidates)))
		return candidates[0]
	}

	pool := perfect
	var newOnly []string
	for _, c := range pool {
		if sig.Classify(c) == types.VariantNew {
			newOnly = append(newOnly, c)
		}
	}
	if len(newOnly) > 0 {
		pool = newOnly
	}

	best := pool[0]
	bestCount := countOpeningTags(best)
	for _, c := range pool[1:] {
		if n := countOpeningTags(c); n > bestCount {
			best, bestCount = c, n
		}
	}
	log.Debug("selected best candidate",
		zap.Int("candidates", len(candidates)),
		zap.Int("perfect", len(perfect)),
		zap.Int("tag_count", bestCount))
	return best
}

// countOpeningTags counts occurrences of "<" immediately followed by a
// name character. Closing tags, comments and declarations don't count.
func countOpeningTags(text string) int {
	count := 0
	for i := 0; i+1 < len(text); i++ {
		if text[i] != '<' {
			continue
		}
		c := text[i+1]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' {
			count++
		}
	}
	return count
}

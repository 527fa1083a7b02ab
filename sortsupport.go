package uuid

import (
	"encoding/binary"

	"github.com/axiomhq/hyperloglog"
	"github.com/zeebo/xxh3"
)

// Abort-heuristic thresholds. Below abbrevMinInputs/abbrevMinRows the
// cardinality estimate is too noisy to act on. Above abbrevStopCardinality
// distinct abbreviated keys the optimization pays off for any realistic row
// count, so estimation stops entirely.
const (
	abbrevMinInputs       = 10000
	abbrevMinRows         = 10000
	abbrevStopCardinality = 100000.0
	abbrevKeyDensity      = 2000.0 // expect one distinct key per this many inputs
)

// SortSupport carries the per-sort state of the abbreviated-key
// optimization: an input counter, an estimating flag and a cardinality
// sketch of the abbreviated keys seen so far. A SortSupport belongs to a
// single sort operation and a single goroutine; it needs no locking.
//
// The contract with an external sort engine has four entry points: AbbrevKey
// produces the cheap proxy key, Update feeds the cardinality estimate,
// ShouldAbort decides periodically whether to discard the proxies, and
// FullCompare is the authoritative comparator used to break proxy ties (and
// as the only comparator after an abort). Sorting is correct with or without
// the proxies; the heuristic only controls whether they are worth the
// memory and conversion work.
type SortSupport struct {
	inputCount int64
	estimating bool
	abbrevCard *hyperloglog.Sketch
}

// NewSortSupport creates sort-support state for one sort operation.
func NewSortSupport() *SortSupport {
	return &SortSupport{
		estimating: true,
		abbrevCard: hyperloglog.New14(),
	}
}

// AbbrevKey packs the first 8 bytes of the UUID into a uint64 such that
// plain unsigned comparison of two keys matches the byte-wise comparison of
// the corresponding prefixes. Pure and infallible; equal keys say nothing,
// the full comparator breaks ties.
func (u UUID) AbbrevKey() uint64 {
	return binary.BigEndian.Uint64(u[0:8])
}

// Update accounts for one abbreviated key produced for this sort. While
// estimation is running the key is hashed and added to the cardinality
// sketch; once estimation has been switched off only the input counter
// advances.
func (ss *SortSupport) Update(key uint64) {
	ss.inputCount++
	if !ss.estimating {
		return
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	ss.abbrevCard.InsertHash(xxh3.Hash(buf[:]))
}

// ShouldAbort reports whether the sort should discard its abbreviated keys
// and fall back to the authoritative comparator. rowCount is the number of
// rows the sort has buffered so far; callers invoke this periodically while
// accumulating input.
//
// The decision stays false until enough inputs have been seen to trust the
// estimate. A high estimate (beyond abbrevStopCardinality) settles the
// question for good and disables further estimation work. Otherwise the
// estimate must keep up with a minimum of one distinct key per
// abbrevKeyDensity inputs, with a half-row fudge factor against pathological
// early ties.
func (ss *SortSupport) ShouldAbort(rowCount int) bool {
	if rowCount < abbrevMinRows || ss.inputCount < abbrevMinInputs || !ss.estimating {
		return false
	}

	card := float64(ss.abbrevCard.Estimate())

	if card > abbrevStopCardinality {
		ss.estimating = false
		return false
	}

	if card < float64(ss.inputCount)/abbrevKeyDensity+0.5 {
		return true
	}

	return false
}

// FullCompare is the authoritative comparator for the sort-support contract.
func (ss *SortSupport) FullCompare(a, b UUID) int {
	return a.Compare(b)
}

package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Tolerance is the maximum distance between an observed tide value and the
// nearest table key for the tick to be rewritten.
const Tolerance = 0.051

// tieEpsilon absorbs binary floating-point noise when comparing distances,
// e.g. |0.95-0.9| and |1.0-0.95| differ only in the last bits.
const tieEpsilon = 1e-9

// ErrEmptyDraftTable is returned when a table is built without entries.
var ErrEmptyDraftTable = errors.New("draft table has no entries")

// DraftEntry maps one tide key (meters) to the draft with gangway (meters).
type DraftEntry struct {
	Tide  float64 `yaml:"tide" json:"tide"`
	Draft float64 `yaml:"draft" json:"draft"`
}

// DraftTable is an immutable tide-to-draft lookup, sorted by tide key.
type DraftTable struct {
	entries []DraftEntry
}

// defaultEntries is the Buenos Aires (Palermo) draft-with-gangway table.
var defaultEntries = []DraftEntry{
	{-0.1, 7.30}, {0.0, 7.40}, {0.1, 7.50}, {0.2, 7.60}, {0.3, 7.70},
	{0.4, 7.80}, {0.5, 7.90}, {0.6, 8.00}, {0.7, 8.10}, {0.8, 8.20},
	{0.9, 8.30}, {1.0, 8.40}, {1.1, 8.50}, {1.2, 8.60}, {1.3, 8.70},
	{1.4, 8.80}, {1.5, 8.90}, {1.6, 9.00}, {1.7, 9.10}, {1.8, 9.20},
	{1.9, 9.30}, {2.0, 9.40}, {2.1, 9.50}, {2.2, 9.60},
}

// DefaultDraftTable returns the built-in table.
func DefaultDraftTable() *DraftTable {
	t, err := NewDraftTable(defaultEntries)
	if err != nil {
		panic(fmt.Sprintf("default draft table: %v", err))
	}
	return t
}

// NewDraftTable copies and sorts entries. Keys must be finite and unique.
func NewDraftTable(entries []DraftEntry) (*DraftTable, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyDraftTable
	}

	sorted := make([]DraftEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tide < sorted[j].Tide })

	for i, e := range sorted {
		if !isFinite(e.Tide) || !isFinite(e.Draft) {
			return nil, fmt.Errorf("draft table entry %d: non-finite value", i)
		}
		if i > 0 && math.Abs(e.Tide-sorted[i-1].Tide) < tieEpsilon {
			return nil, fmt.Errorf("draft table: duplicate tide key %.1f", e.Tide)
		}
	}
	return &DraftTable{entries: sorted}, nil
}

// Entries returns a copy of the table rows in ascending tide order.
func (t *DraftTable) Entries() []DraftEntry {
	out := make([]DraftEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of tide keys.
func (t *DraftTable) Len() int { return len(t.entries) }

// Snap finds the key nearest to v and its draft. ok is false when v is not
// finite or the nearest key is farther than Tolerance. When v is equally
// distant from two keys the higher key wins, so 0.95 snaps to 1.0.
func (t *DraftTable) Snap(v float64) (key, draft float64, ok bool) {
	if !isFinite(v) || len(t.entries) == 0 {
		return 0, 0, false
	}

	n := len(t.entries)
	i := sort.Search(n, func(i int) bool { return t.entries[i].Tide >= v })

	var best DraftEntry
	switch {
	case i == 0:
		best = t.entries[0]
	case i == n:
		best = t.entries[n-1]
	default:
		lo, hi := t.entries[i-1], t.entries[i]
		if hi.Tide-v <= v-lo.Tide+tieEpsilon {
			best = hi
		} else {
			best = lo
		}
	}

	if math.Abs(v-best.Tide)-Tolerance > tieEpsilon {
		return 0, 0, false
	}
	return best.Tide, best.Draft, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

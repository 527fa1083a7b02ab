package uuid

import (
	"encoding/binary"
	"sort"
	"testing"
)

func TestUUID_AbbrevKey_OrderMatchesCompare(t *testing.T) {
	pairs := [][2]UUID{
		{Nil, Max},
		{MustParse("00000000-0000-0000-0000-000000000000"), MustParse("00000000-0000-0001-0000-000000000000")},
		{MustParse("550e8400-e29b-41d4-a716-446655440000"), MustParse("550e8400-e29b-41d5-a716-446655440000")},
		{MustParse("7fffffff-ffff-ffff-0000-000000000000"), MustParse("80000000-0000-0000-0000-000000000000")},
	}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		ka, kb := a.AbbrevKey(), b.AbbrevKey()
		if a.Compare(b) < 0 && ka >= kb {
			t.Errorf("AbbrevKey order disagrees with Compare: %v vs %v", a, b)
		}
	}

	// Values sharing an 8-byte prefix must produce equal keys; the full
	// comparator is the tie-breaker.
	a := MustParse("550e8400-e29b-41d4-a716-446655440000")
	b := MustParse("550e8400-e29b-41d4-ffff-446655440000")
	if a.AbbrevKey() != b.AbbrevKey() {
		t.Error("AbbrevKey should ignore bytes 8-15")
	}
	if a.Compare(b) >= 0 {
		t.Error("full comparator should order the tied pair")
	}
}

func TestUUID_AbbrevKey_BigEndianPrefix(t *testing.T) {
	uuid := MustParse("0102030405060708-090a-0b0c-0d0e0f10")
	if uuid.AbbrevKey() != 0x0102030405060708 {
		t.Errorf("AbbrevKey() = %#x, want 0x0102030405060708", uuid.AbbrevKey())
	}
}

func TestSortSupport_BelowThresholds(t *testing.T) {
	ss := NewSortSupport()

	// One single repeated key, but not enough inputs to act on.
	for i := 0; i < 9999; i++ {
		ss.Update(42)
	}
	if ss.ShouldAbort(9999) {
		t.Error("ShouldAbort() must stay false below the input threshold")
	}

	// Enough inputs, not enough buffered rows.
	ss.Update(42)
	if ss.ShouldAbort(9999) {
		t.Error("ShouldAbort() must stay false below the row threshold")
	}
}

func TestSortSupport_AbortsOnDuplicateHeavyInput(t *testing.T) {
	ss := NewSortSupport()

	key := MustParse("550e8400-e29b-41d4-a716-446655440000").AbbrevKey()
	for i := 0; i < 12000; i++ {
		ss.Update(key)
	}

	if !ss.ShouldAbort(12000) {
		t.Error("ShouldAbort() should fire when every abbreviated key is identical")
	}
}

func TestSortSupport_KeepsDistinctHeavyInput(t *testing.T) {
	ss := NewSortSupport()

	for i := uint64(0); i < 12000; i++ {
		ss.Update(i << 16)
	}

	if ss.ShouldAbort(12000) {
		t.Error("ShouldAbort() should stay false for distinct-heavy input")
	}
	if !ss.estimating {
		t.Error("estimation should continue below the stop cardinality")
	}
}

func TestSortSupport_StopsEstimatingAtHighCardinality(t *testing.T) {
	ss := NewSortSupport()

	for i := uint64(0); i < 150000; i++ {
		ss.Update(i)
	}

	if ss.ShouldAbort(150000) {
		t.Error("ShouldAbort() should stay false at high cardinality")
	}
	if ss.estimating {
		t.Error("estimation should stop permanently beyond the stop cardinality")
	}

	// Once estimation is off the heuristic never fires again, even if the
	// remaining input is pure duplicates.
	for i := 0; i < 50000; i++ {
		ss.Update(7)
	}
	if ss.ShouldAbort(200000) {
		t.Error("ShouldAbort() must stay false after estimation has stopped")
	}
}

// abbrevSort is a miniature stand-in for an external sort engine driving the
// four-function contract: pre-sort on the word proxy, break ties with the
// authoritative comparator.
func abbrevSort(values []UUID, ss *SortSupport) {
	type row struct {
		key  uint64
		uuid UUID
	}
	rows := make([]row, len(values))
	for i, u := range values {
		key := u.AbbrevKey()
		ss.Update(key)
		rows[i] = row{key: key, uuid: u}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].key != rows[j].key {
			return rows[i].key < rows[j].key
		}
		return ss.FullCompare(rows[i].uuid, rows[j].uuid) < 0
	})
	for i := range rows {
		values[i] = rows[i].uuid
	}
}

func TestSortSupport_SortAgreesWithFullComparator(t *testing.T) {
	const n = 500
	values := make([]UUID, n)
	for i := range values {
		if i%3 == 0 {
			// shared prefix, distinct tails: forces tie-breaking
			var u UUID
			binary.BigEndian.PutUint64(u[8:], uint64(i))
			values[i] = u
		} else {
			values[i] = Must(NewV4())
		}
	}

	want := make([]UUID, n)
	copy(want, values)
	sort.Slice(want, func(i, j int) bool { return want[i].Less(want[j]) })

	abbrevSort(values, NewSortSupport())

	for i := range values {
		if values[i] != want[i] {
			t.Fatalf("abbreviated sort diverges from full sort at index %d", i)
		}
	}
}

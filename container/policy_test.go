package container

import (
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/memokit/key"
)

func present(c Container, k *key.Key) bool {
	_, err := c.Lookup(k)
	return err == nil
}

// TestFIFO_EvictsOldest verifies insertion-order eviction, unaffected by
// lookups.
func TestFIFO_EvictsOldest(t *testing.T) {
	c := NewFIFO(2)
	k1, k2, k3 := mustKey(t, 1), mustKey(t, 2), mustKey(t, 3)

	if err := c.Insert(k1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(k2, "b"); err != nil {
		t.Fatal(err)
	}
	// Touch k1; FIFO must ignore recency.
	if !present(c, k1) {
		t.Fatal("k1 missing before eviction")
	}
	if err := c.Insert(k3, "c"); err != nil {
		t.Fatal(err)
	}

	if present(c, k1) {
		t.Error("oldest entry survived")
	}
	if !present(c, k2) || !present(c, k3) {
		t.Error("younger entries evicted")
	}
}

// TestLRU_EvictsLeastRecentlyUsed follows the classic scenario: touching
// an entry protects it, the stale one goes.
func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(2)
	k2, k3, k4 := mustKey(t, 2), mustKey(t, 3), mustKey(t, 4)

	if err := c.Insert(k2, 4); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(k3, 9); err != nil {
		t.Fatal(err)
	}
	if !present(c, k2) {
		t.Fatal("k2 missing")
	}
	// k3 is now least recently used.
	if err := c.Insert(k4, 16); err != nil {
		t.Fatal(err)
	}

	if present(c, k3) {
		t.Error("least recently used entry survived")
	}
	if !present(c, k2) || !present(c, k4) {
		t.Error("recently used entries evicted")
	}
}

// TestMRU_EvictsMostRecentlyUsed verifies the inverse policy.
func TestMRU_EvictsMostRecentlyUsed(t *testing.T) {
	c := NewMRU(2)
	k1, k2, k3 := mustKey(t, 1), mustKey(t, 2), mustKey(t, 3)

	if err := c.Insert(k1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(k2, "b"); err != nil {
		t.Fatal(err)
	}
	// k1 becomes the most recently used and should be the victim.
	if !present(c, k1) {
		t.Fatal("k1 missing")
	}
	if err := c.Insert(k3, "c"); err != nil {
		t.Fatal(err)
	}

	if present(c, k1) {
		t.Error("most recently used entry survived")
	}
	if !present(c, k2) || !present(c, k3) {
		t.Error("wrong entry evicted")
	}
}

// TestLFU_EvictsLeastFrequentlyUsed verifies use counts drive eviction.
func TestLFU_EvictsLeastFrequentlyUsed(t *testing.T) {
	c := NewLFU(2)
	k1, k2, k3 := mustKey(t, 1), mustKey(t, 2), mustKey(t, 3)

	if err := c.Insert(k1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(k2, "b"); err != nil {
		t.Fatal(err)
	}
	// Three extra uses for k1, none for k2.
	for i := 0; i < 3; i++ {
		if !present(c, k1) {
			t.Fatal("k1 missing")
		}
	}
	if err := c.Insert(k3, "c"); err != nil {
		t.Fatal(err)
	}

	if present(c, k2) {
		t.Error("least frequently used entry survived")
	}
	if !present(c, k1) || !present(c, k3) {
		t.Error("frequently used entry evicted")
	}
}

// TestRR_ChoiceSelectsVictim verifies the choice function picks the
// victim from the full candidate list.
func TestRR_ChoiceSelectsVictim(t *testing.T) {
	k1, k2, k3 := mustKey(t, 1), mustKey(t, 2), mustKey(t, 3)

	var candidates int
	choice := func(keys []*key.Key) *key.Key {
		candidates = len(keys)
		// Deterministic: always evict k1.
		for _, k := range keys {
			if k.Equal(k1) {
				return k
			}
		}
		return keys[0]
	}

	c := NewRR(2, choice)
	if err := c.Insert(k1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(k2, "b"); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(k3, "c"); err != nil {
		t.Fatal(err)
	}

	if candidates != 2 {
		t.Errorf("choice saw %d candidates, want 2", candidates)
	}
	if present(c, k1) {
		t.Error("chosen victim survived")
	}
	if !present(c, k2) || !present(c, k3) {
		t.Error("unchosen entry evicted")
	}
}

// fakeClock is a controllable time source for TTL tests.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

// TestTTL_Expiry verifies entries are treated as absent once their time
// to live has passed.
func TestTTL_Expiry(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := NewTTL(10, 10*time.Second, clk.Now)
	k := mustKey(t, 1)

	if err := c.Insert(k, 1); err != nil {
		t.Fatal(err)
	}
	clk.Advance(5 * time.Second)
	if !present(c, k) {
		t.Fatal("entry expired early")
	}
	clk.Advance(6 * time.Second)
	if present(c, k) {
		t.Error("expired entry still present")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expiry, want 0", c.Len())
	}
}

// TestTTL_LRUOrdering verifies the capacity path evicts by recency, not
// expiry.
func TestTTL_LRUOrdering(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := NewTTL(2, time.Hour, clk.Now)
	k1, k2, k3 := mustKey(t, 1), mustKey(t, 2), mustKey(t, 3)

	if err := c.Insert(k1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(k2, "b"); err != nil {
		t.Fatal(err)
	}
	if !present(c, k1) {
		t.Fatal("k1 missing")
	}
	if err := c.Insert(k3, "c"); err != nil {
		t.Fatal(err)
	}

	if present(c, k2) {
		t.Error("least recently used entry survived")
	}
	if !present(c, k1) || !present(c, k3) {
		t.Error("wrong entry evicted")
	}
}

// TestTTL_Unbounded verifies the unbounded variant grows freely and
// sheds entries only by expiry.
func TestTTL_Unbounded(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := NewUnboundedTTL(time.Minute, clk.Now)

	for i := 0; i < 1000; i++ {
		if err := c.Insert(mustKey(t, i), i); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	if c.Len() != 1000 {
		t.Errorf("Len = %d, want 1000", c.Len())
	}
	if _, err := c.Lookup(mustKey(t, 0)); err != nil {
		t.Errorf("first entry evicted from unbounded container: %v", err)
	}

	clk.Advance(2 * time.Minute)
	if c.Len() != 0 {
		t.Errorf("Len = %d after expiry, want 0", c.Len())
	}
}

// TestTTL_ReplaceRefreshesDeadline verifies re-inserting a key restarts
// its lifetime.
func TestTTL_ReplaceRefreshesDeadline(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := NewTTL(10, 10*time.Second, clk.Now)
	k := mustKey(t, "x")

	if err := c.Insert(k, 1); err != nil {
		t.Fatal(err)
	}
	clk.Advance(8 * time.Second)
	if err := c.Insert(k, 2); err != nil {
		t.Fatal(err)
	}
	clk.Advance(8 * time.Second)

	v, err := c.Lookup(k)
	if errors.Is(err, ErrNotFound) {
		t.Fatal("refreshed entry expired on original deadline")
	}
	if v != 2 {
		t.Errorf("Lookup = %v, want 2", v)
	}
}

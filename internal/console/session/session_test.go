package session

import "testing"

func TestInvalidateFiresOnce(t *testing.T) {
	calls := 0
	store := NewStore(func() { calls++ })
	store.SetToken("abc")

	store.Invalidate()
	store.Invalidate()
	store.Invalidate()

	if calls != 1 {
		t.Fatalf("expected logout callback once, got %d", calls)
	}
	if store.Token() != "" {
		t.Fatalf("token should be cleared, got %q", store.Token())
	}
	if !store.Invalidated() {
		t.Fatal("latch should report invalidated")
	}
}

func TestSetTokenRearmsLatch(t *testing.T) {
	calls := 0
	store := NewStore(func() { calls++ })

	store.SetToken("first")
	store.Invalidate()
	store.SetToken("second")
	store.Invalidate()

	if calls != 2 {
		t.Fatalf("expected callback per credential lifetime, got %d", calls)
	}
}

func TestNilCallbackIsSafe(t *testing.T) {
	store := NewStore(nil)
	store.SetToken("abc")
	store.Invalidate()
	if store.Token() != "" {
		t.Fatal("token should clear even without callback")
	}
}

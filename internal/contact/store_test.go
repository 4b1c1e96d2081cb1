package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/folio/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestStoreSaveAndList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	older := &Submission{ID: "a", Name: "Ada", Email: "ada@example.com", ReceivedAt: base}
	newer := &Submission{
		ID:         "b",
		Name:       "Grace",
		Email:      "grace@example.com",
		Fields:     map[string]string{"message": "hello"},
		ReceivedAt: base.Add(500 * time.Millisecond),
	}
	if err := store.Save(ctx, older, false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, newer, true); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Record{
		{Submission: *newer, Forwarded: true},
		{Submission: *older, Forwarded: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "b" {
		t.Errorf("List(1) = %+v, want newest only", limited)
	}
}

func TestStoreSaveUpdatesForwarded(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	s := &Submission{ID: "a", Name: "Ada", Email: "ada@example.com", ReceivedAt: time.Now()}

	if err := store.Save(ctx, s, false); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, s, true); err != nil {
		t.Fatal(err)
	}
	got, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].Forwarded {
		t.Errorf("got %+v, want one forwarded record", got)
	}
}

func TestRelayStoresSubmissions(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer upstream.Close()

	store := setupStore(t)
	relay := NewRelay(Config{Endpoint: upstream.URL, Store: store})
	s := &Submission{Name: "Ada", Email: "ada@example.com"}
	if err := relay.Submit(context.Background(), s); err == nil {
		t.Fatal("expected upstream error")
	}

	got, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != s.ID || got[0].Forwarded {
		t.Errorf("got %+v, want the failed submission kept unforwarded", got)
	}
}

func TestRelayDoesNotStoreInvalid(t *testing.T) {
	store := setupStore(t)
	relay := NewRelay(Config{Store: store})
	_ = relay.Submit(context.Background(), &Submission{Name: "Ada"})

	got, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("invalid submission was stored: %+v", got)
	}
}

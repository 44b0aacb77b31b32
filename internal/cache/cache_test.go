package cache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
)

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key("glucemias", nil); got != "glucemias" {
		t.Fatalf("bare resource key: got %q", got)
	}

	a := url.Values{}
	a.Set("desde", "2026-08-20T00:00:00")
	a.Set("tipo", "bolo")
	b := url.Values{}
	b.Set("tipo", "bolo")
	b.Set("desde", "2026-08-20T00:00:00")
	if Key("dosis", a) != Key("dosis", b) {
		t.Fatalf("same filters in different order must yield the same key")
	}
}

func TestFetch_CachesAndInvalidates(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()
	calls := 0
	fn := func(ctx context.Context) ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	if _, err := Fetch(ctx, c, "glucemias", fn); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := Fetch(ctx, c, "glucemias", fn); err != nil {
		t.Fatalf("Fetch(2): %v", err)
	}
	if calls != 1 {
		t.Fatalf("second read must hit the cache, made %d fetches", calls)
	}

	c.Invalidate("glucemias")
	if _, err := Fetch(ctx, c, "glucemias", fn); err != nil {
		t.Fatalf("Fetch after invalidate: %v", err)
	}
	if calls != 2 {
		t.Fatalf("invalidated key must refetch, made %d fetches", calls)
	}
}

func TestFetch_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()
	calls := 0
	boom := errors.New("backend down")
	fn := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "ok", nil
	}

	if _, err := Fetch(ctx, c, "kits", fn); !errors.Is(err, boom) {
		t.Fatalf("want the fetch error, got %v", err)
	}
	got, err := Fetch(ctx, c, "kits", fn)
	if err != nil || got != "ok" {
		t.Fatalf("retry after error: got %q, %v", got, err)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	t.Parallel()

	c := New()
	c.Set("dosis", []int{1})
	c.Set("dosis?tipo=bolo", []int{2})
	c.Set("kit-detalle/3", 3)

	c.InvalidatePrefix("dosis")

	if c.Contains("dosis") || c.Contains("dosis?tipo=bolo") {
		t.Fatalf("prefix invalidation must drop all filtered variants")
	}
	if !c.Contains("kit-detalle/3") {
		t.Fatalf("unrelated keys must survive")
	}
}

func TestFetch_DeduplicatesInFlight(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	var fetches int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return 42, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(ctx, c, "insumos", fn)
			if err != nil {
				t.Errorf("Fetch: %v", err)
			}
			results[i] = v
		}(i)
	}

	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Fatalf("concurrent callers must share one fetch, made %d", n)
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("caller %d got %d, want 42", i, v)
		}
	}
}

func TestFetch_ContextCancelledWhileWaiting(t *testing.T) {
	t.Parallel()

	c := New()
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _ = Fetch(context.Background(), c, "alertas", func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fetch(ctx, c, "alertas", func(ctx context.Context) (int, error) {
		t.Error("waiter must not start a second fetch")
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	close(release)
}

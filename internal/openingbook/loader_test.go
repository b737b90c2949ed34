package openingbook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

const table = `[{"moves":"1. e4 e5","name":"King's Pawn Game"},{"moves":"1. d4 d5","name":"Queen's Pawn Game"}]`

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(table))
	}))
	t.Cleanup(srv.Close)

	raw, err := NewFetcher(WithTimeout(2*time.Second)).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(raw) != table || hits.Load() != 3 {
		t.Fatalf("raw=%q hits=%d", raw, hits.Load())
	}
}

func TestFetchGivesUpAfterRetryLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	if _, err := NewFetcher(WithRetry(2)).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error")
	}
	if hits.Load() != 2 {
		t.Fatalf("hits = %d", hits.Load())
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	if _, err := NewFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error")
	}
	if hits.Load() != 1 {
		t.Fatalf("hits = %d", hits.Load())
	}
}

func TestFetchFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/raw/eco.json", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/data/eco.json", http.StatusFound)
	})
	mux.HandleFunc("/data/eco.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(table))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	raw, err := NewFetcher().Fetch(context.Background(), srv.URL+"/raw/eco.json")
	if err != nil || string(raw) != table {
		t.Fatalf("raw=%q err=%v", raw, err)
	}
}

type countingSource struct {
	calls atomic.Int32
	raw   []byte
	err   error
	delay time.Duration
}

func (s *countingSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return s.raw, s.err
}

func TestLoaderLoadsOnce(t *testing.T) {
	src := &countingSource{raw: []byte(table), delay: 20 * time.Millisecond}
	l := NewLoader("", src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if idx := l.Index(context.Background()); idx.Len() != 2 {
				t.Errorf("len = %d", idx.Len())
			}
		}()
	}
	wg.Wait()
	if src.calls.Load() != 1 {
		t.Fatalf("calls = %d", src.calls.Load())
	}
	if l.Err() != nil {
		t.Fatalf("err = %v", l.Err())
	}
}

func TestLoaderDegradesToEmpty(t *testing.T) {
	src := &countingSource{err: errors.New("boom")}
	l := NewLoader("http://example.invalid/eco.json", src)
	if idx := l.Index(context.Background()); idx.Len() != 0 {
		t.Fatalf("expected empty index")
	}
	if !errors.Is(l.Err(), ErrLoad) {
		t.Fatalf("err = %v", l.Err())
	}
	l.Index(context.Background())
	if src.calls.Load() != 1 {
		t.Fatalf("failure retried: %d calls", src.calls.Load())
	}

	bad := NewLoader("", &countingSource{raw: []byte("<html>")})
	if bad.Index(context.Background()).Len() != 0 || !errors.Is(bad.Err(), ErrLoad) {
		t.Fatalf("bad table should degrade, err=%v", bad.Err())
	}
}

func TestLoaderUsesRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache, err := NewRedisCache("redis://"+mr.Addr()+"/0", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	src := &countingSource{raw: []byte(table)}
	first := NewLoader("", src, WithCache(cache))
	if first.Index(context.Background()).Len() != 2 {
		t.Fatalf("first load failed: %v", first.Err())
	}
	if got, _ := mr.Get(CacheKey); got != table {
		t.Fatalf("cached = %q", got)
	}
	if ttl := mr.TTL(CacheKey); ttl != time.Hour {
		t.Fatalf("ttl = %v", ttl)
	}

	offline := &countingSource{err: errors.New("offline")}
	second := NewLoader("", offline, WithCache(cache))
	idx := second.Index(context.Background())
	if idx.Len() != 2 || offline.calls.Load() != 0 {
		t.Fatalf("cache not used: len=%d calls=%d", idx.Len(), offline.calls.Load())
	}
	if _, ok := idx.Match("1. d4"); !ok {
		t.Fatalf("prefix lookup failed on cached table")
	}
}

func TestRedisCacheRejectsBadURL(t *testing.T) {
	if _, err := NewRedisCache("", time.Minute); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := NewRedisCache("http://localhost:6379", time.Minute); err == nil {
		t.Fatalf("expected scheme error")
	}
}

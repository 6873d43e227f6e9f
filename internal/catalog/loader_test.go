package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/redis"
)

type countingSource struct {
	calls atomic.Int32
	delay time.Duration
	rows  []Row
	err   error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Load(ctx context.Context) ([]Row, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.rows, s.err
}

func TestLoaderSharesConcurrentFirstLoad(t *testing.T) {
	src := &countingSource{delay: 20 * time.Millisecond, rows: ToRows(staticServices)}
	loader, err := NewLoader(LoaderParams{Source: src})
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*Catalog, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cat, err := loader.Get(context.Background())
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			results[i] = cat
		}(i)
	}
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected a single source load, got %d", got)
	}
	for _, cat := range results {
		if cat != results[0] {
			t.Fatal("expected every caller to receive the same catalog")
		}
	}

	if _, err := loader.Get(context.Background()); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected cached catalog to be reused, got %d loads", got)
	}

	if _, err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Fatalf("expected reload to hit the source, got %d loads", got)
	}
}

func TestLoaderSourceErrorIsDependencyError(t *testing.T) {
	loader, _ := NewLoader(LoaderParams{Source: &countingSource{err: errors.New("timeout")}})

	_, err := loader.Get(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLoaderRejectsInvalidCatalog(t *testing.T) {
	rows := []Row{
		{Slug: "dup", Title: "A", Category: "LABORAL", IsPublished: true},
		{Slug: "dup", Title: "B", Category: "LABORAL", IsPublished: true},
	}
	loader, _ := NewLoader(LoaderParams{Source: &countingSource{rows: rows}})

	_, err := loader.Get(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error for duplicate codes, got %v", err)
	}
}

func TestLoaderUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	cache := redis.NewFromRedis(raw)

	first := &countingSource{rows: ToRows(staticServices[:5])}
	loaderA, _ := NewLoader(LoaderParams{Source: first, Cache: cache, CacheTTL: time.Minute})
	if _, err := loaderA.Get(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if !mr.Exists("asesfy:cache:catalog:counting:v1") {
		t.Fatalf("expected catalog rows to be cached, keys=%v", mr.Keys())
	}

	second := &countingSource{rows: ToRows(staticServices)}
	loaderB, _ := NewLoader(LoaderParams{Source: second, Cache: cache, CacheTTL: time.Minute})
	cat, err := loaderB.Get(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.calls.Load() != 0 {
		t.Fatal("expected second loader to be served from cache")
	}
	if cat.Len() != 5 {
		t.Fatalf("expected cached catalog with 5 services, got %d", cat.Len())
	}
}

func TestNewLoaderRequiresSource(t *testing.T) {
	if _, err := NewLoader(LoaderParams{}); err == nil {
		t.Fatal("expected error without source")
	}
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/redis"
)

const cacheVersion = "v1"

// Loader fetches the catalog once and serves the same immutable value afterwards.
// Concurrent first loads share a single fetch.
type Loader struct {
	source   Source
	cache    redis.Cache
	cacheTTL time.Duration
	logg     *logger.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	current *Catalog
}

// LoaderParams wires a Loader. Cache is optional.
type LoaderParams struct {
	Source   Source
	Cache    redis.Cache
	CacheTTL time.Duration
	Logger   *logger.Logger
}

func NewLoader(params LoaderParams) (*Loader, error) {
	if params.Source == nil {
		return nil, errors.New("catalog source is required")
	}
	return &Loader{
		source:   params.Source,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     params.Logger,
	}, nil
}

// Get returns the loaded catalog, fetching it on first use.
func (l *Loader) Get(ctx context.Context) (*Catalog, error) {
	l.mu.RLock()
	current := l.current
	l.mu.RUnlock()
	if current != nil {
		return current, nil
	}
	return l.load(ctx, true)
}

// Reload fetches the catalog from the source again, bypassing any cached copy.
func (l *Loader) Reload(ctx context.Context) (*Catalog, error) {
	return l.load(ctx, false)
}

func (l *Loader) load(ctx context.Context, useCache bool) (*Catalog, error) {
	key := "load"
	if !useCache {
		key = "reload"
	}
	detached := context.WithoutCancel(ctx)
	resultChan := l.group.DoChan(key, func() (interface{}, error) {
		if useCache {
			l.mu.RLock()
			current := l.current
			l.mu.RUnlock()
			if current != nil {
				return current, nil
			}
		}
		return l.fetch(detached, useCache)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Catalog), nil
	}
}

func (l *Loader) fetch(ctx context.Context, useCache bool) (*Catalog, error) {
	rows, fromCache := l.readCache(ctx, useCache)
	if !fromCache {
		var err error
		rows, err = l.source.Load(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("load catalog from %s", l.source.Name()))
		}
		l.writeCache(ctx, rows)
	}

	services, skipped := FromRows(rows)
	if skipped != nil && l.logg != nil {
		l.logg.Warn(l.logg.WithField(ctx, "error", skipped.Error()), "catalog rows skipped")
	}

	cat, err := New(services)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "catalog failed validation")
	}

	l.mu.Lock()
	l.current = cat
	l.mu.Unlock()

	if l.logg != nil {
		l.logg.Info(l.logg.WithFields(ctx, map[string]any{
			"source":     l.source.Name(),
			"services":   cat.Len(),
			"from_cache": fromCache,
		}), "catalog loaded")
	}
	return cat, nil
}

func (l *Loader) cacheKey() string {
	return l.cache.CacheKey("catalog", l.source.Name(), cacheVersion)
}

func (l *Loader) readCache(ctx context.Context, useCache bool) ([]Row, bool) {
	if l.cache == nil || !useCache {
		return nil, false
	}
	raw, err := l.cache.Get(ctx, l.cacheKey())
	if err != nil {
		if !redis.IsNil(err) && l.logg != nil {
			l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "catalog cache read failed")
		}
		return nil, false
	}
	var rows []Row
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (l *Loader) writeCache(ctx context.Context, rows []Row) {
	if l.cache == nil || l.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, l.cacheKey(), string(raw), l.cacheTTL); err != nil && l.logg != nil {
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
	}
}

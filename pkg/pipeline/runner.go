package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mcl/pkg/cache"
	"github.com/matzehuels/mcl/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute compiles opts.Tree and renders every requested format.
//
// On analysis errors it returns a partial Result (units with diagnostics,
// no documents) together with a [*CompileError].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		BuildID:  uuid.NewString(),
		Source:   opts.Source,
		TreeHash: cache.Hash(opts.Tree),
	}
	logger := opts.Logger.With("build", result.BuildID[:8], "source", opts.Source)

	compileStart := time.Now()
	units, hit, err := r.CompileWithCacheInfo(ctx, opts)
	result.Stats.CompileTime = time.Since(compileStart)
	result.CacheInfo.CompileHit = hit
	if err != nil {
		var cerr *CompileError
		if stderrors.As(err, &cerr) {
			result.Units = cerr.Units
			logger.Warn("compilation failed", "duration", result.Stats.CompileTime)
			return result, err
		}
		return nil, fmt.Errorf("compile: %w", err)
	}
	result.Units = units
	netlistStats(units, &result.Stats)

	logger.Info("compiled",
		"microcontrollers", result.Stats.Microcontrollers,
		"pins", result.Stats.Pins,
		"components", result.Stats.Components,
		"islands", result.Stats.Islands,
		"cached", hit,
		"duration", result.Stats.CompileTime)

	renderStart := time.Now()
	renderHit, err := r.RenderWithCacheInfo(ctx, result.Units, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Check runs analysis only and returns every unit with its diagnostics.
// Unlike [Runner.Execute] it never touches the cache.
func (r *Runner) Check(ctx context.Context, source string, tree []byte) ([]Unit, error) {
	units, err := Analyze(ctx, source, tree)
	var cerr *CompileError
	if err != nil && !stderrors.As(err, &cerr) {
		return nil, err
	}
	r.Logger.Debug("checked", "source", source, "microcontrollers", len(units), "failed", err != nil)
	return units, err
}

// CompileWithCacheInfo compiles with caching and returns cache hit info.
// Only successful compilations are cached. Units served from cache have
// documents but no netlist.
func (r *Runner) CompileWithCacheInfo(ctx context.Context, opts Options) ([]Unit, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.CompileKey(cache.Hash(opts.Tree), opts.CompileKeyOpts())

	if !opts.Refresh {
		if data, hit := r.get(ctx, "compile", cacheKey); hit {
			var units []Unit
			if err := json.Unmarshal(data, &units); err == nil {
				return units, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	units, err := Compile(ctx, opts.Source, opts.Tree, opts.Layout)
	if err != nil {
		return units, false, err
	}

	if data, err := json.Marshal(units); err == nil {
		r.set(ctx, "compile", cacheKey, data, opts.TTL)
	}
	return units, false, nil
}

// RenderWithCacheInfo fills the Artifacts of every unit and reports whether
// all diagram artifacts came from cache. JSON documents are rendered
// directly and never cached on their own.
//
// A cache miss on a unit served from cache triggers one recompilation to
// recover the netlists.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, units []Unit, opts Options) (bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return false, err
	}

	cached, missed := 0, 0
	recompiled := false
	for i := range units {
		u := &units[i]
		u.Artifacts = make(map[string][]byte, len(opts.Formats))

		docData, err := json.Marshal(u.Document)
		if err != nil {
			return false, fmt.Errorf("serialize document for cache key: %w", err)
		}
		docHash := cache.Hash(docData)

		for _, format := range opts.Formats {
			if format == FormatJSON {
				data, err := Render(ctx, u, format, opts.Detailed)
				if err != nil {
					return false, err
				}
				u.Artifacts[format] = data
				continue
			}

			cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			if !opts.Refresh {
				if data, hit := r.get(ctx, "artifact", cacheKey); hit {
					u.Artifacts[format] = data
					cached++
					continue
				}
			}
			missed++

			if u.Netlist == nil && !recompiled {
				if err := r.restoreNetlists(ctx, units, opts); err != nil {
					return false, err
				}
				recompiled = true
			}

			data, err := Render(ctx, u, format, opts.Detailed)
			if err != nil {
				return false, err
			}
			u.Artifacts[format] = data
			r.set(ctx, "artifact", cacheKey, data, opts.TTL)
		}
	}
	return cached > 0 && missed == 0, nil
}

// restoreNetlists recompiles opts.Tree and copies the placed netlists into
// units, which must come from the same tree.
func (r *Runner) restoreNetlists(ctx context.Context, units []Unit, opts Options) error {
	opts.Logger.Debug("recompiling for diagram rendering", "source", opts.Source)
	fresh, err := Compile(ctx, opts.Source, opts.Tree, opts.Layout)
	if err != nil {
		return err
	}
	if len(fresh) != len(units) {
		return fmt.Errorf("recompiled %d microcontrollers, cached %d", len(fresh), len(units))
	}
	for i := range units {
		units[i].Netlist = fresh[i].Netlist
	}
	return nil
}

// BatchResult pairs a batch input with its outcome.
type BatchResult struct {
	Source string
	Result *Result
	Err    error
}

// ExecuteBatch runs Execute for every option set with at most limit
// compilations in flight (no limit when limit < 1). One failing item does
// not stop the others; results keep the input order.
func (r *Runner) ExecuteBatch(ctx context.Context, batch []Options, limit int) []BatchResult {
	results := make([]BatchResult, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, opts := range batch {
		g.Go(func() error {
			res, err := r.Execute(ctx, opts)
			results[i] = BatchResult{Source: opts.Source, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", keyType, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

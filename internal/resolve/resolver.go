package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"golang.org/x/sync/errgroup"

	"arity-generator/internal/analyze"
	"arity-generator/internal/logger"
	"arity-generator/internal/oracle"
	"arity-generator/internal/search"
)

// ErrEngineMismatch is reported when cross-validation disagrees with the
// primary engine.
var ErrEngineMismatch = errors.New("search engines disagree")

// Record is the resolution of one record type.
type Record struct {
	ID    analyze.TypeID
	Count int
	Calls int
	Trace []search.Step
	Err   error
}

// OK reports whether the count was resolved.
func (r Record) OK() bool {
	return r.Err == nil
}

// Results holds records in resolution order.
type Results = orderedmap.OrderedMap[analyze.TypeID, Record]

// Resolver counts fields of records in a type graph.
type Resolver struct {
	graph   *analyze.TypeGraph
	oracle  oracle.Oracle
	engine  search.Engine
	cfg     search.Config
	cross   bool
	workers int
	log     *logger.Logger

	mu   sync.Mutex
	memo map[analyze.TypeID]Record
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOracle sets the construction oracle.
func WithOracle(o oracle.Oracle) Option {
	return func(r *Resolver) {
		r.oracle = o
	}
}

// WithEngine sets the search engine.
func WithEngine(e search.Engine) Option {
	return func(r *Resolver) {
		r.engine = e
	}
}

// WithSearchConfig sets the search bounds.
func WithSearchConfig(cfg search.Config) Option {
	return func(r *Resolver) {
		r.cfg = cfg
	}
}

// WithCrossValidation re-runs every record with the linear engine and
// fails the record when the counts differ.
func WithCrossValidation(enabled bool) Option {
	return func(r *Resolver) {
		r.cross = enabled
	}
}

// WithWorkers bounds the number of records resolved concurrently.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		r.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// New creates a Resolver over graph. The default oracle is the checker
// backend with package lookup through the graph.
func New(graph *analyze.TypeGraph, opts ...Option) *Resolver {
	r := &Resolver{
		graph:  graph,
		engine: search.Exponential,
		cfg:    search.DefaultConfig(),
		log:    logger.NewNop(),
		memo:   make(map[analyze.TypeID]Record),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.oracle == nil {
		r.oracle = oracle.NewChecker(graph.TypesPackage)
	}

	return r
}

// Resolve counts the fields of a single record. Results are memoised.
func (r *Resolver) Resolve(id analyze.TypeID) Record {
	r.mu.Lock()
	if rec, ok := r.memo[id]; ok {
		r.mu.Unlock()

		return rec
	}
	r.mu.Unlock()

	rec := r.resolve(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	// A concurrent caller may have won; keep the first result.
	if prev, ok := r.memo[id]; ok {
		return prev
	}

	r.memo[id] = rec

	return rec
}

func (r *Resolver) resolve(id analyze.TypeID) Record {
	log := r.log.WithType(id.String())
	rec := Record{ID: id}

	info := r.graph.GetType(id)
	if info == nil {
		rec.Err = fmt.Errorf("%s: %w", id, analyze.ErrTypeNotFound)

		return rec
	}

	res, err := r.engine(r.predicate(info), r.cfg)
	rec.Count, rec.Calls, rec.Trace = res.Count, res.Calls, res.Trace

	if err != nil {
		rec.Err = fmt.Errorf("%s: %w", id, err)
		log.Debugw("unresolved", "error", err, "calls", res.Calls)

		return rec
	}

	if r.cross {
		ref, err := search.Linear(r.predicate(info), r.cfg)
		if err != nil {
			rec.Err = fmt.Errorf("%s: cross-validation: %w", id, err)
			log.Debugw("cross-validation failed", "error", err)

			return rec
		}

		if ref.Count != res.Count {
			rec.Err = fmt.Errorf("%s: %w: exponential=%d linear=%d", id, ErrEngineMismatch, res.Count, ref.Count)

			return rec
		}
	}

	log.Debugw("resolved", "count", res.Count, "calls", res.Calls)

	return rec
}

func (r *Resolver) predicate(info *analyze.TypeInfo) search.Predicate {
	return func(n int) (bool, error) {
		return r.oracle.Check(info.GoType, n)
	}
}

// ResolveAll resolves ids concurrently and returns records in the order of
// ids. Per-record failures are carried in Record.Err; the returned error is
// only set when ctx is cancelled.
func (r *Resolver) ResolveAll(ctx context.Context, ids []analyze.TypeID) (*Results, error) {
	records := make([]Record, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			records[i] = r.Resolve(id)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := orderedmap.NewOrderedMap[analyze.TypeID, Record]()
	for _, rec := range records {
		results.Set(rec.ID, rec)
	}

	return results, nil
}

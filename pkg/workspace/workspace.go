// Package workspace keeps a bounded set of named integer lists.
//
// Lists are created on first reference and the least recently used one is
// evicted once the workspace is full. Every list is guarded by the mutex of
// its Entry; dlist itself is not safe for concurrent use.
package workspace

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/pmkol/linkseq/pkg/concurrent_lru"
	"github.com/pmkol/linkseq/pkg/dlist"
)

const (
	defaultMaxLists = 64
	defaultShards   = 1
)

// ErrTooManyLists is returned by Lock when the named lists cannot all be
// held by the workspace at once.
var ErrTooManyLists = errors.New("too many lists")

type Config struct {
	// MaxLists is the total number of lists kept. Default is 64.
	MaxLists int `yaml:"max_lists"`
	// Shards must be a power of 2. Default is 1.
	Shards int `yaml:"shards"`
}

// Entry is a named list. List and Replace require the entry lock.
type Entry struct {
	sync.Mutex
	name string
	l    *dlist.List[int64]
}

func (e *Entry) Name() string {
	return e.name
}

func (e *Entry) List() *dlist.List[int64] {
	return e.l
}

// Replace swaps the list held by e.
func (e *Entry) Replace(l *dlist.List[int64]) {
	e.l = l
}

type Workspace struct {
	logger *zap.Logger
	lists  *concurrent_lru.ShardedLRU[*Entry]

	created prometheus.Counter
	removed prometheus.Counter
}

// New creates a workspace and registers its metrics to reg.
func New(cfg Config, logger *zap.Logger, reg prometheus.Registerer) (*Workspace, error) {
	maxLists, shards := cfg.MaxLists, cfg.Shards
	if maxLists <= 0 {
		maxLists = defaultMaxLists
	}
	if shards <= 0 {
		shards = defaultShards
	}
	if shards&(shards-1) != 0 {
		return nil, fmt.Errorf("invalid shard number %d, must be a power of 2", shards)
	}
	perShard := (maxLists + shards - 1) / shards

	w := &Workspace{
		logger: logger,
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workspace_lists_created_total",
			Help: "The total number of lists created",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workspace_lists_removed_total",
			Help: "The total number of lists evicted or dropped",
		}),
	}
	w.lists = concurrent_lru.NewShardedLRU[*Entry](shards, perShard, w.onRemove)

	size := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "workspace_lists",
		Help: "Current number of lists in the workspace",
	}, func() float64 { return float64(w.Len()) })
	for _, c := range []prometheus.Collector{w.created, w.removed, size} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics, %w", err)
		}
	}
	return w, nil
}

// onRemove runs with a shard lock held, for evictions as well as Drop and
// Reset.
func (w *Workspace) onRemove(name string, _ *Entry) {
	w.removed.Inc()
	w.logger.Debug("list removed", zap.String("list", name))
}

// Get returns the entry of name if present.
func (w *Workspace) Get(name string) (*Entry, bool) {
	return w.lists.Get(name)
}

// Open returns the entry of name, creating an empty list if needed.
func (w *Workspace) Open(name string) *Entry {
	e, added := w.lists.GetOrAdd(name, func() *Entry {
		return &Entry{name: name, l: dlist.New[int64]()}
	})
	if added {
		w.created.Inc()
		w.logger.Debug("list created", zap.String("list", name))
	}
	return e
}

// Lock opens and locks every named list. Entries are returned in the order
// of names and locked in sorted order, so concurrent callers cannot
// deadlock. A name may be given more than once.
//
// Opening a list may evict another one. Lock fails with ErrTooManyLists
// before opening anything if the names do not fit in their shards, and
// re-inserts any of its own entries that were evicted while opening the
// rest, so the locked entries are the ones kept by the workspace.
func (w *Workspace) Lock(names ...string) (entries []*Entry, unlock func(), err error) {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	perShard := make(map[int]int)
	for _, name := range sorted {
		i := w.lists.ShardOf(name)
		perShard[i]++
		if perShard[i] > w.lists.MaxSizePerShard() {
			return nil, nil, fmt.Errorf("%w: %d lists %q exceed the workspace capacity", ErrTooManyLists, len(sorted), sorted)
		}
	}

	opened := make(map[string]*Entry, len(sorted))
	locked := make([]*Entry, 0, len(sorted))
	for _, name := range sorted {
		e := w.Open(name)
		e.Lock()
		opened[name] = e
		locked = append(locked, e)
	}
	for _, e := range locked {
		if cur, ok := w.lists.Peek(e.name); !ok || cur != e {
			w.logger.Debug("list re-inserted", zap.String("list", e.name))
			w.lists.Add(e.name, e)
		}
	}

	entries = make([]*Entry, len(names))
	for i, name := range names {
		entries[i] = opened[name]
	}
	return entries, func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}, nil
}

// Render returns the debug rendering of a list.
func (w *Workspace) Render(name string) (string, bool) {
	e, ok := w.lists.Peek(name)
	if !ok {
		return "", false
	}
	e.Lock()
	defer e.Unlock()
	return e.l.String(), true
}

func (w *Workspace) Drop(name string) {
	w.lists.Del(name)
}

// Reset drops every list.
func (w *Workspace) Reset() {
	w.lists.Clean(func(string, *Entry) bool { return true })
}

// Names returns the names of all lists, sorted.
func (w *Workspace) Names() []string {
	names := w.lists.Keys()
	slices.Sort(names)
	return names
}

func (w *Workspace) Len() int {
	return w.lists.Len()
}

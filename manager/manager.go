package manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ttpr0/go-hdmap/comps"
	"github.com/ttpr0/go-hdmap/parser"
	"github.com/ttpr0/go-hdmap/query"
	"github.com/ttpr0/go-hdmap/signal"
	. "github.com/ttpr0/go-hdmap/util"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"
)

//*******************************************
// map manager
//*******************************************

// Process wide cache of loaded maps keyed by map name.
//
// A map is built at most once until it is removed. Readers only observe
// fully composed handles.
type MapManager struct {
	opts ManagerOptions

	// serializes builds in SERIALIZED mode
	build_lock sync.Mutex
	group      singleflight.Group

	lock         sync.RWMutex
	maps         Dict[string, *MapHandle]
	build_counts Dict[string, int]

	// guard readers of one artifact or query family against RemoveAll
	category_locks [CATEGORY_COUNT]sync.RWMutex
	query_lock     sync.RWMutex
	signal_lock    sync.RWMutex
}

func NewMapManager(opts ManagerOptions) *MapManager {
	if opts.Loader == nil {
		opts.Loader = parser.LoadMap
	}
	return &MapManager{
		opts:         opts,
		maps:         NewDict[string, *MapHandle](4),
		build_counts: NewDict[string, int](4),
	}
}

func (self *MapManager) _Lookup(name string) (*MapHandle, bool) {
	self.lock.RLock()
	defer self.lock.RUnlock()
	handle, ok := self.maps[name]
	return handle, ok
}

// Returns the cached map or builds it.
//
// Concurrent calls for an uncached map share one build and its outcome.
// Failed builds are not cached.
func (self *MapManager) GetOrLoad(name string) (*MapHandle, error) {
	if handle, ok := self._Lookup(name); ok {
		CacheHitsTotal.Inc()
		return handle, nil
	}
	CacheMissesTotal.Inc()

	if self.opts.BuildMode == SERIALIZED {
		self.build_lock.Lock()
		defer self.build_lock.Unlock()
		return self._LoadAndPublish(name)
	}
	value, err, _ := self.group.Do(name, func() (any, error) {
		return self._LoadAndPublish(name)
	})
	if err != nil {
		return nil, err
	}
	return value.(*MapHandle), nil
}

func (self *MapManager) _LoadAndPublish(name string) (*MapHandle, error) {
	if handle, ok := self._Lookup(name); ok {
		return handle, nil
	}
	handle, err := self._Build(name)
	if err != nil {
		return nil, err
	}
	self.lock.Lock()
	self.maps[name] = handle
	CachedMaps.Set(float64(self.maps.Length()))
	self.lock.Unlock()
	return handle, nil
}

func (self *MapManager) _Build(name string) (*MapHandle, error) {
	self.lock.Lock()
	self.build_counts[name] += 1
	self.lock.Unlock()

	start := time.Now()
	slog.Info("building map", "name", name)

	opts := parser.LoadOptions{}
	if self.opts.Attributes != nil {
		opts.Reference = self.opts.Attributes.Reference(name)
	}
	doc, err := self.opts.Loader(self.Path(name), opts)
	if err != nil {
		BuildsTotal.WithLabelValues("failure").Inc()
		slog.Error("failed to build map", "name", name, "error", err)
		return nil, err
	}
	index := comps.BuildMapIndex(doc)
	engine := query.NewEngine(index)
	artifacts, err := ComposeArtifacts(index)
	if err != nil {
		BuildsTotal.WithLabelValues("failure").Inc()
		slog.Error("failed to compose artifacts", "name", name, "error", err)
		return nil, err
	}
	signals, err := signal.InferPhases(index, engine).JSON()
	if err != nil {
		BuildsTotal.WithLabelValues("failure").Inc()
		slog.Error("failed to compose signal scaffolding", "name", name, "error", err)
		return nil, err
	}

	handle := &MapHandle{
		name:      name,
		index:     index,
		engine:    engine,
		artifacts: artifacts,
		signals:   string(signals),
		built_at:  time.Now(),
	}
	duration := time.Since(start)
	BuildsTotal.WithLabelValues("success").Inc()
	BuildDurationMs.Observe(float64(duration.Milliseconds()))
	slog.Info("finished building map", "name", name, "lanes", index.Lanes().Length(), "duration", duration.String())
	return handle, nil
}

// Loads every map, returns the joined errors of failed loads.
func (self *MapManager) Preload(names []string) error {
	errs := make([]error, 0)
	for _, name := range names {
		if _, err := self.GetOrLoad(name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Resolves a map name to its file path.
func (self *MapManager) Path(name string) string {
	if self.opts.Directory == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(self.opts.Directory, name)
}

//*******************************************
// readers
//*******************************************

// Returns the cached map without loading it.
func (self *MapManager) Get(name string) Optional[*MapHandle] {
	if handle, ok := self._Lookup(name); ok {
		return Some(handle)
	}
	return None[*MapHandle]()
}

// Returns a serialized artifact of a cached map.
func (self *MapManager) GetArtifact(name string, category Category) (string, bool) {
	if category < 0 || category >= CATEGORY_COUNT {
		return "", false
	}
	self.category_locks[category].RLock()
	defer self.category_locks[category].RUnlock()

	handle, ok := self._Lookup(name)
	if !ok {
		return "", false
	}
	return handle.artifacts[category], true
}

// Returns the signal phase scaffolding of a cached map.
func (self *MapManager) GetSignals(name string) (string, bool) {
	self.signal_lock.RLock()
	defer self.signal_lock.RUnlock()

	handle, ok := self._Lookup(name)
	if !ok {
		return "", false
	}
	return handle.signals, true
}

// Runs fn with the query engine of a cached map.
//
// Returns false without calling fn if the map is not cached. fn runs under the
// query lock, so eviction of the map waits for it. fn must not call RemoveAll
// or WithEngine.
func (self *MapManager) WithEngine(name string, fn func(engine *query.Engine)) bool {
	self.query_lock.RLock()
	defer self.query_lock.RUnlock()

	handle, ok := self._Lookup(name)
	if !ok {
		return false
	}
	fn(handle.engine)
	return true
}

// Names of all cached maps in sorted order.
func (self *MapManager) Names() List[string] {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return SortedKeys(self.maps)
}

// Number of builds started for a map.
func (self *MapManager) BuildCount(name string) int {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return self.build_counts[name]
}

// Returns if the file of a cached map changed since it was built.
func (self *MapManager) IsStale(name string) (bool, error) {
	handle, ok := self._Lookup(name)
	if !ok {
		return false, fmt.Errorf("map %s not cached", name)
	}
	info, err := os.Stat(self.Path(name))
	if err != nil {
		return false, fmt.Errorf("%w: %v", parser.ErrResource, err)
	}
	etag := parser.Etag(filepath.Base(name), info.Size(), info.ModTime())
	return etag != handle.Etag(), nil
}

//*******************************************
// invalidation
//*******************************************

// Evicts a map with all of its artifacts. Returns false if it was not cached.
func (self *MapManager) RemoveAll(name string) bool {
	for i := range self.category_locks {
		self.category_locks[i].Lock()
	}
	self.query_lock.Lock()
	self.signal_lock.Lock()
	defer func() {
		self.signal_lock.Unlock()
		self.query_lock.Unlock()
		for i := len(self.category_locks) - 1; i >= 0; i-- {
			self.category_locks[i].Unlock()
		}
	}()

	self.lock.Lock()
	defer self.lock.Unlock()
	if !self.maps.ContainsKey(name) {
		return false
	}
	self.maps.Delete(name)
	EvictionsTotal.Inc()
	CachedMaps.Set(float64(self.maps.Length()))
	slog.Info("removed map", "name", name)
	return true
}

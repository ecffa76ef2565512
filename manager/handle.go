package manager

import (
	"time"

	"github.com/ttpr0/go-hdmap/comps"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/query"
	. "github.com/ttpr0/go-hdmap/util"
)

// Published map: the map index with its query engine and every composed
// artifact. A handle is immutable once published.
type MapHandle struct {
	name      string
	index     *comps.MapIndex
	engine    *query.Engine
	artifacts Array[string]
	signals   string
	built_at  time.Time
}

func (self *MapHandle) Name() string {
	return self.name
}
func (self *MapHandle) Index() comps.IMapIndex {
	return self.index
}
func (self *MapHandle) Engine() *query.Engine {
	return self.engine
}
func (self *MapHandle) Artifact(category Category) string {
	if category < 0 || int(category) >= self.artifacts.Length() {
		return ""
	}
	return self.artifacts[category]
}

// Signal phase scaffolding as json.
func (self *MapHandle) Signals() string {
	return self.signals
}
func (self *MapHandle) Reference() geo.Reference {
	return self.index.Reference()
}
func (self *MapHandle) Etag() string {
	return self.index.Etag()
}
func (self *MapHandle) ModTime() time.Time {
	return self.index.ModTime()
}
func (self *MapHandle) BuiltAt() time.Time {
	return self.built_at
}

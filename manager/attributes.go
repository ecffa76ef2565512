package manager

import (
	"fmt"
	"os"

	"github.com/ttpr0/go-hdmap/geo"
	. "github.com/ttpr0/go-hdmap/util"
)

// Supplies per-map attributes by map name.
type IAttributeProvider interface {
	// Returns the reference point configured for a map.
	Reference(name string) Optional[geo.Reference]
}

// Attribute provider backed by a fixed set of reference points.
type StaticAttributes struct {
	references Dict[string, geo.Reference]
}

func NewStaticAttributes(references map[string]geo.Reference) *StaticAttributes {
	refs := NewDict[string, geo.Reference](len(references))
	for name, ref := range references {
		refs[name] = ref
	}
	return &StaticAttributes{references: refs}
}

func (self *StaticAttributes) Reference(name string) Optional[geo.Reference] {
	if ref, ok := self.references[name]; ok {
		return Some(ref)
	}
	return None[geo.Reference]()
}

func (self *StaticAttributes) Names() List[string] {
	return SortedKeys(self.references)
}

var _ IAttributeProvider = &StaticAttributes{}

type _AttributeRow struct {
	Name    string  `csv:"name"`
	Lon     float64 `csv:"lon"`
	Lat     float64 `csv:"lat"`
	Alt     float64 `csv:"alt"`
	Enabled string  `csv:"enabled"`
}

// Reads reference points from a ';'-separated csv file with the columns
// name, lon, lat, alt and an optional enabled flag.
//
// Rows override references of the same name. Rows without name or with
// enabled set to false are ignored.
func (self *StaticAttributes) ReadCSV(file string) error {
	input, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("attributes file: %w", err)
	}
	defer input.Close()
	if info, err := input.Stat(); err != nil || info.IsDir() {
		return fmt.Errorf("attributes file %s is not a regular file", file)
	}

	for row := range ReadCSV[_AttributeRow](input, ';') {
		if row.Name == "" || row.Enabled == "false" || row.Enabled == "0" {
			continue
		}
		self.references[row.Name] = geo.Reference{Lon: row.Lon, Lat: row.Lat, Alt: row.Alt}
	}
	return nil
}

package manager

import (
	"errors"
	"strings"

	"github.com/ttpr0/go-hdmap/parser"
	"github.com/ttpr0/go-hdmap/structs"
	"gopkg.in/yaml.v3"
)

// Strategy guarding concurrent first loads.
type BuildMode int8

const (
	// at most one build per map, unrelated maps build in parallel
	SINGLE_FLIGHT BuildMode = 0
	// one build at a time across all maps
	SERIALIZED BuildMode = 1
)

func (self BuildMode) String() string {
	switch self {
	case SINGLE_FLIGHT:
		return "single-flight"
	case SERIALIZED:
		return "serialized"
	default:
		return "unknown"
	}
}
func BuildModeFromString(mode string) (BuildMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "single-flight", "singleflight":
		return SINGLE_FLIGHT, nil
	case "serialized":
		return SERIALIZED, nil
	default:
		return SINGLE_FLIGHT, errors.New("invalid build mode: " + mode)
	}
}
func (self *BuildMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	mode, err := BuildModeFromString(s)
	if err != nil {
		return err
	}
	*self = mode
	return nil
}

// Loads a map document from a file.
type LoadFunc func(path string, opts parser.LoadOptions) (*structs.MapDocument, error)

type ManagerOptions struct {
	// directory map names are resolved against
	Directory  string
	Attributes IAttributeProvider
	BuildMode  BuildMode
	// defaults to parser.LoadMap
	Loader LoadFunc
}

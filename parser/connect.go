package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/ttpr0/go-hdmap/util"
)

// Opens a map reader for a file.
type Opener func(path string) (IMapReader, error)

var (
	formats_lock sync.RWMutex
	formats      = Dict[string, Opener]{
		".sqlite":  OpenSQLiteReader,
		".sqlite3": OpenSQLiteReader,
		".db":      OpenSQLiteReader,
		".pbf":     OpenOSMReader,
		".osm.pbf": OpenOSMReader,
	}
)

// Registers an opener for a file extension (including the leading dot).
//
// Replaces an existing opener for the same extension.
func RegisterFormat(ext string, opener Opener) {
	formats_lock.Lock()
	defer formats_lock.Unlock()
	formats.Set(strings.ToLower(ext), opener)
}

func _FindOpener(path string) (Opener, bool) {
	formats_lock.RLock()
	defer formats_lock.RUnlock()

	name := strings.ToLower(filepath.Base(path))
	// longest matching extension wins (".osm.pbf" before ".pbf")
	var opener Opener
	best := 0
	for ext, o := range formats {
		if strings.HasSuffix(name, ext) && len(ext) > best {
			opener = o
			best = len(ext)
		}
	}
	return opener, opener != nil
}

// Validates the map file and opens a reader for its format.
func Connect(path string) (IMapReader, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrResource)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResource, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrResource, path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrResource, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResource, err)
	}
	file.Close()

	opener, ok := _FindOpener(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormat, filepath.Ext(path))
	}
	reader, err := opener(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	return reader, nil
}

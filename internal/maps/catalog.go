package maps

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin returns the maps shipped with the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err) // embed path is fixed at compile time
	}
	return sub
}

// Catalog loads maps from one or more file systems.
// Later sources override earlier ones when IDs collide.
type Catalog struct {
	sources []fs.FS
}

// NewCatalog creates a catalog over the given sources.
func NewCatalog(sources ...fs.FS) *Catalog {
	return &Catalog{sources: sources}
}

// DefaultCatalog returns the built-in maps, plus dir when it is not empty.
func DefaultCatalog(dir string) *Catalog {
	c := NewCatalog(Builtin())
	if dir != "" {
		c.sources = append(c.sources, os.DirFS(dir))
	}
	return c
}

// LoadAll scans every source and returns the maps sorted by ID.
// Files that fail to parse are skipped; their errors are joined into the
// returned error alongside the maps that did load.
func (c *Catalog) LoadAll() ([]*Map, error) {
	byID := make(map[string]*Map)
	var errs []error

	for _, src := range c.sources {
		err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isMapFile(p) {
				return nil
			}

			m, err := loadFile(src, p)
			if err != nil {
				// Skip invalid files
				errs = append(errs, err)
				return nil
			}
			byID[m.ID] = m
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("walking maps: %w", err))
		}
	}

	out := make([]*Map, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, errors.Join(errs...)
}

// Get returns the map with the given ID. When it is missing, the errors
// of any skipped files are included, since one of them may be the map.
func (c *Catalog) Get(id string) (*Map, error) {
	all, loadErr := c.LoadAll()
	for _, m := range all {
		if m.ID == id {
			return m, nil
		}
	}
	if loadErr != nil {
		return nil, fmt.Errorf("%w: %s (skipped files: %w)", ErrNotFound, id, loadErr)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// IDs returns all loadable map IDs in sorted order.
func (c *Catalog) IDs() []string {
	all, _ := c.LoadAll()
	ids := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.ID
	}
	return ids
}

func loadFile(fsys fs.FS, p string) (*Map, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", p, err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", p, err)
	}
	m.Source = p
	return m, nil
}

func isMapFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

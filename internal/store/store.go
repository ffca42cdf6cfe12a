package store

import (
	"context"
	"fmt"
	"sort"
)

// LoadStatus describes how a Store's backing data was found on Load.
type LoadStatus int

const (
	// LoadOK means the seen set was read successfully.
	LoadOK LoadStatus = iota
	// LoadMissing means there was no backing data yet; the set is empty.
	LoadMissing
	// LoadCorrupt means the backing data could not be read; the set is
	// empty and Load also returns the underlying error.
	LoadCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	}
	return fmt.Sprintf("LoadStatus(%d)", int(s))
}

// Store persists the set of links that were already delivered.
type Store interface {
	Name() string
	// Load always returns a usable set, even together with an error.
	Load(ctx context.Context) (*Set, LoadStatus, error)
	Save(ctx context.Context, set *Set) error
	Close() error
}

// Set is the in-memory seen set. Links are only ever added.
type Set struct {
	links map[string]bool
	added []string
}

// NewSet creates a set holding the given links.
func NewSet(links ...string) *Set {
	s := &Set{links: make(map[string]bool, len(links))}
	for _, l := range links {
		s.links[l] = true
	}
	return s
}

// Has reports whether link was seen before.
func (s *Set) Has(link string) bool {
	return s.links[link]
}

// Mark adds link and reports whether it was new.
func (s *Set) Mark(link string) bool {
	if s.links[link] {
		return false
	}
	s.links[link] = true
	s.added = append(s.added, link)
	return true
}

// Len returns the number of links in the set.
func (s *Set) Len() int {
	return len(s.links)
}

// Links returns all links, sorted.
func (s *Set) Links() []string {
	out := make([]string, 0, len(s.links))
	for l := range s.links {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Added returns the links marked since the set was created, in order.
func (s *Set) Added() []string {
	return append([]string(nil), s.added...)
}

// Import merges every link known to src into dst and returns how many
// links were new to dst.
func Import(ctx context.Context, dst, src Store) (int, error) {
	from, status, err := src.Load(ctx)
	if status == LoadCorrupt {
		return 0, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	into, status, err := dst.Load(ctx)
	if status == LoadCorrupt {
		return 0, fmt.Errorf("load %s: %w", dst.Name(), err)
	}

	added := 0
	for _, l := range from.Links() {
		if into.Mark(l) {
			added++
		}
	}

	if err := dst.Save(ctx, into); err != nil {
		return 0, fmt.Errorf("save %s: %w", dst.Name(), err)
	}
	return added, nil
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates the store for the named backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}

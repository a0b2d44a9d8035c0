package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/ellavondegurechaff/pricevault/pricevault/database/repositories"
	"github.com/sahilm/fuzzy"
	"github.com/uptrace/bun"
	"golang.org/x/sync/singleflight"
)

var ErrNameIndexClosed = errors.New("name index is closed")

// NameIndex answers card-name autocomplete from the catalog. Names are
// loaded on first use and kept until Reset or Close.
type NameIndex struct {
	db    bun.IDB
	cards repositories.CardRepository

	group  singleflight.Group
	mu     sync.RWMutex
	names  nameSource
	loaded bool
	closed bool

	// gen counts Resets; a load only stores names read in its own generation.
	gen uint64
}

// nameSource implements fuzzy.Source over lower-cased names while keeping
// the originals for results.
type nameSource struct {
	display []string
	folded  []string
}

func (s nameSource) String(i int) string { return s.folded[i] }
func (s nameSource) Len() int            { return len(s.folded) }

func NewNameIndex(db bun.IDB, cards repositories.CardRepository) *NameIndex {
	return &NameIndex{db: db, cards: cards}
}

// Search returns up to limit names matching query, best match first. An
// empty query matches nothing.
func (n *NameIndex) Search(ctx context.Context, query string, limit int) ([]string, error) {
	src, err := n.load(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	matches := fuzzy.FindFrom(query, src)
	if len(matches) == 0 {
		return nil, nil
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = src.display[m.Index]
	}
	return out, nil
}

// Len is the number of names loaded, loading them if needed.
func (n *NameIndex) Len(ctx context.Context) (int, error) {
	src, err := n.load(ctx)
	if err != nil {
		return 0, err
	}
	return src.Len(), nil
}

func (n *NameIndex) load(ctx context.Context) (nameSource, error) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return nameSource{}, ErrNameIndexClosed
	}
	if n.loaded {
		src := n.names
		n.mu.RUnlock()
		return src, nil
	}
	n.mu.RUnlock()

	v, err, _ := n.group.Do("names", func() (interface{}, error) {
		n.mu.RLock()
		if n.loaded {
			src := n.names
			n.mu.RUnlock()
			return src, nil
		}
		gen := n.gen
		n.mu.RUnlock()

		names, err := n.cards.Names(ctx, n.db)
		if err != nil {
			return nil, err
		}
		src := nameSource{display: names, folded: make([]string, len(names))}
		for i, name := range names {
			src.folded[i] = strings.ToLower(name)
		}

		n.mu.Lock()
		defer n.mu.Unlock()
		if n.closed {
			return nil, ErrNameIndexClosed
		}
		if n.gen != gen {
			// Reset ran while reading; these names may predate the refresh.
			return src, nil
		}
		n.names, n.loaded = src, true
		slog.Debug("Card names loaded", slog.String("type", "sys"), slog.Int("count", len(names)))
		return src, nil
	})
	if err != nil {
		return nameSource{}, err
	}
	return v.(nameSource), nil
}

// Reset drops the loaded names; the next Search reloads them.
func (n *NameIndex) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.names, n.loaded = nameSource{}, false
	n.gen++
	n.group.Forget("names")
}

// Close releases the names. Searches after Close fail.
func (n *NameIndex) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.names, n.loaded, n.closed = nameSource{}, false, true
	return nil
}

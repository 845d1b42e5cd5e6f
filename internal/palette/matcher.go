package palette

import (
	"cmp"
	"errors"
	"image/color"

	"github.com/ironsheep/palette-dither-mcp/internal/memo"
)

// ErrEmptySequence is returned by MinBy for an empty input.
var ErrEmptySequence = errors.New("minimum of empty sequence")

// AlphaMode selects where the alpha of a matched colour comes from.
type AlphaMode int

const (
	// AlphaFromPalette uses the alpha of the matched palette entry.
	AlphaFromPalette AlphaMode = iota

	// AlphaFromSource keeps the alpha of the colour being matched.
	AlphaFromSource
)

// String returns a short name for the mode.
func (m AlphaMode) String() string {
	if m == AlphaFromSource {
		return "source"
	}
	return "palette"
}

// SquaredDistance returns the squared Euclidean distance between the red,
// green and blue components of a and b. Alpha is ignored.
func SquaredDistance(a, b color.NRGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// MinBy returns the first element of items with the smallest eval result.
func MinBy[T any, K cmp.Ordered](items []T, eval func(T) K) (T, error) {
	if len(items) == 0 {
		var zero T
		return zero, ErrEmptySequence
	}

	best, bestKey := items[0], eval(items[0])
	for _, item := range items[1:] {
		if key := eval(item); key < bestKey {
			best, bestKey = item, key
		}
	}
	return best, nil
}

// Matcher maps colours to the nearest entry of a fixed palette.
//
// Results are memoised per exact input colour for the lifetime of the
// Matcher. A Matcher created by NewMatcher is meant for one goroutine; use
// NewSharedMatcher to share the cache between goroutines.
type Matcher struct {
	palette  Palette
	mode     AlphaMode
	distance func(a, b color.NRGBA) int
	cache    *memo.Cache[color.NRGBA, color.NRGBA]
}

// NewMatcher creates a matcher over a copy of p.
func NewMatcher(p Palette, mode AlphaMode) (*Matcher, error) {
	m, err := newMatcher(p, mode)
	if err != nil {
		return nil, err
	}
	m.cache = memo.Memoize(m.Match)
	return m, nil
}

// NewSharedMatcher is like NewMatcher but its cache may be used by several
// goroutines at once.
func NewSharedMatcher(p Palette, mode AlphaMode) (*Matcher, error) {
	m, err := newMatcher(p, mode)
	if err != nil {
		return nil, err
	}
	m.cache = memo.Synchronized(m.Match)
	return m, nil
}

func newMatcher(p Palette, mode AlphaMode) (*Matcher, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}
	return &Matcher{
		palette:  p.Clone(),
		mode:     mode,
		distance: SquaredDistance,
	}, nil
}

// nearest returns the closest palette entry, first one on ties.
func (m *Matcher) nearest(c color.NRGBA) color.NRGBA {
	// the palette is never empty here
	best, _ := MinBy(m.palette, func(entry color.NRGBA) int {
		return m.distance(entry, c)
	})
	return best
}

// MatchKeepingAlpha returns the nearest palette entry, including its alpha.
func (m *Matcher) MatchKeepingAlpha(c color.NRGBA) color.NRGBA {
	return m.nearest(c)
}

// MatchPreservingOriginalAlpha returns the nearest palette entry with its
// alpha replaced by the alpha of c.
func (m *Matcher) MatchPreservingOriginalAlpha(c color.NRGBA) color.NRGBA {
	out := m.nearest(c)
	out.A = c.A
	return out
}

// Match applies the matcher's alpha mode without consulting the cache.
func (m *Matcher) Match(c color.NRGBA) color.NRGBA {
	if m.mode == AlphaFromSource {
		return m.MatchPreservingOriginalAlpha(c)
	}
	return m.MatchKeepingAlpha(c)
}

// Quantize is the memoised form of Match.
func (m *Matcher) Quantize(c color.NRGBA) color.NRGBA {
	return m.cache.Get(c)
}

// CacheSize returns the number of distinct colours matched so far.
func (m *Matcher) CacheSize() int { return m.cache.Len() }

package engine

import (
	"encoding/json"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// FlagSet holds the coordinates a player has flagged. It is independent of
// reveal state and only stops the cascade from opening a cell.
// The zero value is an empty set ready to use.
type FlagSet struct {
	set   mapset.Set[Coord]
	ready bool
}

// NewFlagSet creates an empty flag set
func NewFlagSet() *FlagSet {
	return &FlagSet{set: mapset.New[Coord](), ready: true}
}

func (f *FlagSet) init() {
	if !f.ready {
		f.set = mapset.New[Coord]()
		f.ready = true
	}
}

// Has reports whether c is flagged. A nil set has no flags.
func (f *FlagSet) Has(c Coord) bool {
	if f == nil {
		return false
	}
	return f.set.Has(c)
}

// Toggle adds c if absent, removes it otherwise, and reports whether c is now flagged
func (f *FlagSet) Toggle(c Coord) bool {
	f.init()
	if f.set.Has(c) {
		f.set.Remove(c)
		return false
	}
	f.set.Put(c)
	return true
}

// Len returns the number of flags
func (f *FlagSet) Len() int {
	if f == nil {
		return 0
	}
	return f.set.Size()
}

// Coords returns the flagged coordinates in row-major order
func (f *FlagSet) Coords() []Coord {
	coords := make([]Coord, 0, f.Len())
	if f == nil {
		return coords
	}
	f.set.Each(func(c Coord) {
		coords = append(coords, c)
	})
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

// Clone returns an independent copy
func (f *FlagSet) Clone() *FlagSet {
	clone := NewFlagSet()
	for _, c := range f.Coords() {
		clone.set.Put(c)
	}
	return clone
}

// MarshalJSON encodes the set as a sorted list of coordinates
func (f *FlagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Coords())
}

// UnmarshalJSON decodes a list of coordinates
func (f *FlagSet) UnmarshalJSON(data []byte) error {
	var coords []Coord
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	f.set = mapset.New[Coord]()
	f.ready = true
	for _, c := range coords {
		f.set.Put(c)
	}
	return nil
}

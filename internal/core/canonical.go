package core

import (
	"slices"
	"strconv"
	"strings"
)

// Key is the canonical, order-independent encoding of a State.
type Key string

// Canonical returns a copy of s with every multiset and set sorted.
func (s State) Canonical() State {
	c := s.Clone()
	slices.SortFunc(c.Carried, CompareItems)
	slices.SortFunc(c.Orders, CompareItems)
	slices.SortFunc(c.Prepared, CompareItems)
	slices.Sort(c.Dirty)
	return c
}

// Key encodes the canonical form of s.
//
// With timed set, the global time and absolute finish times are part of
// the key (exact duplicates only). Without it, finish times are encoded
// relative to s.Time, so two states whose futures are identical up to a
// time shift share a key.
func (s State) Key(timed bool) Key {
	c := s.Canonical()
	var b strings.Builder
	b.Grow(128)
	origin := c.Time
	if timed {
		b.WriteString("t=")
		writeTime(&b, c.Time)
		b.WriteByte(';')
		origin = 0
	}
	writeStatus(&b, c.Preparer, origin)
	writeStatus(&b, c.Server, origin)
	writeName(&b, c.Location)
	if c.Tray {
		b.WriteString(";T")
	} else {
		b.WriteString(";-")
	}
	writeItems(&b, 'c', c.Carried)
	writeItems(&b, 'o', c.Orders)
	writeItems(&b, 'p', c.Prepared)
	b.WriteString(";d")
	for _, loc := range c.Dirty {
		b.WriteByte(',')
		writeName(&b, loc)
	}
	return Key(b.String())
}

func writeStatus(b *strings.Builder, st Status, origin float64) {
	b.WriteString(strconv.Itoa(int(st.Action)))
	if !st.IsIdle() {
		b.WriteByte(':')
		writeName(b, st.Item.Dest)
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(int(st.Item.Kind)))
		b.WriteByte('/')
		writeName(b, st.Place)
		b.WriteByte('@')
		writeTime(b, st.Finish-origin)
	}
	b.WriteByte(';')
}

func writeItems(b *strings.Builder, tag byte, items []Item) {
	b.WriteByte(';')
	b.WriteByte(tag)
	for _, it := range items {
		b.WriteByte(',')
		writeName(b, it.Dest)
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(int(it.Kind)))
	}
}

// writeName quotes a location so separators inside names stay unambiguous.
func writeName(b *strings.Builder, loc Location) {
	b.WriteString(strconv.Quote(string(loc)))
}

// writeTime rounds to the resolution of TimeTolerance.
func writeTime(b *strings.Builder, t float64) {
	if TimeEqual(t, 0) {
		t = 0
	}
	b.WriteString(strconv.FormatFloat(t, 'f', 3, 64))
}

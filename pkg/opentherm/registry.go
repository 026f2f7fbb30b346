// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package opentherm

import (
	"fmt"
	"strconv"
)

// DataItem describes one catalog entry
type DataItem struct {
	ID    uint8
	Dir   Direction
	Pos   string // bit position of a sub-field, empty for whole values
	Kind  Encoding
	Min   float64
	Max   float64
	Units string
	Descr string
}

// SubEntry is one flag or sub-field row of a container entry
type SubEntry struct {
	Variant string // "HB", "HB0" … "LB7"
	Item    DataItem
}

// Registry provides ordered access to the built-in data-id catalog.
// Keys follow the catalog scheme: "%03d" primaries, direction variants
// ("001W"), request-input variants ("000I") and ":pos" sub-entries
// ("005:LB", "020R:HB1").
type Registry struct {
	keys  []string
	items map[string]DataItem
}

// subEntryOrder is the display order of container sub-entries: the high
// byte before the low byte, whole-byte rows before numbered bits
var subEntryOrder = [...]string{
	"HB", "HB0", "HB1", "HB2", "HB3", "HB4", "HB5", "HB6", "HB7",
	"LB", "LB0", "LB1", "LB2", "LB3", "LB4", "LB5", "LB6", "LB7",
}

// NewRegistry builds the registry from the built-in catalog
func NewRegistry() *Registry {
	r := &Registry{
		keys:  make([]string, 0, len(catalog)),
		items: make(map[string]DataItem, len(catalog)),
	}
	for _, row := range catalog {
		id, _ := strconv.Atoi(row.key[:3])
		r.keys = append(r.keys, row.key)
		r.items[row.key] = DataItem{
			ID:    uint8(id),
			Dir:   ParseDirection(row.dir),
			Pos:   row.pos,
			Kind:  row.kind,
			Min:   row.min,
			Max:   row.max,
			Units: row.units,
			Descr: row.descr,
		}
	}
	return r
}

// Key builds the primary catalog key of a data id
func Key(id uint8) string {
	return fmt.Sprintf("%03d", id)
}

// Lookup returns the primary entry for a data id
func (r *Registry) Lookup(id uint8) (DataItem, bool) {
	item, ok := r.items[Key(id)]
	return item, ok
}

// LookupKey returns the entry stored under an exact catalog key
func (r *Registry) LookupKey(key string) (DataItem, bool) {
	item, ok := r.items[key]
	return item, ok
}

// SubEntries returns the sub-entries of a container key in display order
func (r *Registry) SubEntries(key string) []SubEntry {
	var subs []SubEntry
	for _, variant := range subEntryOrder {
		if item, ok := r.items[key+":"+variant]; ok {
			subs = append(subs, SubEntry{Variant: variant, Item: item})
		}
	}
	return subs
}

// Items returns the primary catalog entries in ascending id order
func (r *Registry) Items() []DataItem {
	var items []DataItem
	for _, key := range r.keys {
		if len(key) != 3 {
			continue
		}
		items = append(items, r.items[key])
	}
	return items
}

// ReadableIDs returns the ascending data ids whose primary entry is
// readable. These are the scan candidates.
func (r *Registry) ReadableIDs() []uint8 {
	var ids []uint8
	for _, key := range r.keys {
		if len(key) != 3 {
			continue
		}
		if item := r.items[key]; item.Dir&DirRead != 0 {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// DefaultRequest returns the request payload used when the operator
// supplies none. The status exchange echoes the master flags, so id 0
// probes with every flag raised; everything else probes with zero.
func (r *Registry) DefaultRequest(id uint8) uint16 {
	if id == IDStatus {
		return StatusRequest
	}
	return 0
}

// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"log"
	"sort"
)

// ChangeKind distinguishes the two observable mutations of a Collection, so
// a presentation layer can choose between an incremental and a full redraw.
type ChangeKind int

const (
	// ChangeAppended means one or more records were accepted and the
	// collection re-sorted.
	ChangeAppended ChangeKind = iota
	// ChangeReset means the collection was emptied.
	ChangeReset
)

// Change describes a completed mutation of a Collection.
type Change struct {
	Kind     ChangeKind
	Appended int    // records accepted, 0 on reset
	Version  uint64 // collection version after the mutation
}

// Collection is an ordered, duplicate-free set of place records.
//
// After every mutating operation the contents are sorted by Record.OrderKey
// and no two elements are pairwise duplicates under Record.IsDuplicateOf.
// Mutating operations never fail: malformed input (nil entries, duplicates)
// is filtered silently.
//
// A Collection is meant for single-threaded, synchronous mutation. It holds
// no internal locks; adapters that receive events from several goroutines
// must serialize access themselves.
type Collection struct {
	records  []*Record
	version  uint64
	onChange func(Change)
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Notify registers fn to be called after every observable mutation. Only one
// observer is supported; nil unregisters.
func (c *Collection) Notify(fn func(Change)) {
	c.onChange = fn
}

// Version returns a counter that increases with every observable mutation.
// A poller can compare versions instead of registering an observer.
func (c *Collection) Version() uint64 {
	return c.version
}

// Len returns the current number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// At returns the record at index i in display order, or nil when i is out of
// range.
func (c *Collection) At(i int) *Record {
	if i < 0 || i >= len(c.records) {
		return nil
	}

	return c.records[i]
}

// Records returns a snapshot of the current contents in display order.
func (c *Collection) Records() []*Record {
	out := make([]*Record, len(c.records))
	copy(out, c.records)

	return out
}

// InsertOne adds r to the collection unless it duplicates an existing member.
// A nil record is a no-op. It reports whether the record was accepted.
func (c *Collection) InsertOne(r *Record) bool {
	if r == nil {
		return false
	}

	for _, existing := range c.records {
		if existing.IsDuplicateOf(r) {
			log.Printf("places: skipping duplicate %q", r.DisplayName)

			return false
		}
	}

	c.records = append(c.records, r)
	c.sortRecords()
	c.changed(Change{Kind: ChangeAppended, Appended: 1})

	return true
}

// InsertBatch adds every candidate that duplicates neither an existing member
// nor a candidate accepted earlier in the same batch (first seen wins). Nil
// entries are dropped silently. The collection is re-sorted once, and a
// single appended notification covers all accepted candidates.
func (c *Collection) InsertBatch(candidates []*Record) {
	accepted := c.filterDuplicates(candidates)
	if len(accepted) == 0 {
		return
	}

	c.records = append(c.records, accepted...)
	c.sortRecords()
	c.changed(Change{Kind: ChangeAppended, Appended: len(accepted)})
}

// Clear empties the collection. Clearing an already empty collection is a
// no-op and emits no notification.
func (c *Collection) Clear() {
	if len(c.records) == 0 {
		return
	}

	c.records = c.records[:0]
	c.changed(Change{Kind: ChangeReset})
}

// ContainsAnyDuplicateOf reports whether any candidate duplicates a current
// member. It is read-only and tolerates nil entries.
func (c *Collection) ContainsAnyDuplicateOf(candidates []*Record) bool {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}

		for _, existing := range c.records {
			if existing.IsDuplicateOf(candidate) {
				return true
			}
		}
	}

	return false
}

// filterDuplicates returns the candidates that survive the two-level check:
// not a duplicate of any existing member, and not a duplicate of a candidate
// already accepted in this batch. Without the second level, a batch carrying
// two mutually-duplicate new cities would let both slip in.
func (c *Collection) filterDuplicates(candidates []*Record) []*Record {
	var accepted []*Record

	dropped := 0

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}

		dup := false

		for _, existing := range c.records {
			if existing.IsDuplicateOf(candidate) {
				dup = true

				break
			}
		}

		if !dup {
			for _, prior := range accepted {
				if prior.IsDuplicateOf(candidate) {
					dup = true

					break
				}
			}
		}

		if dup {
			dropped++

			continue
		}

		accepted = append(accepted, candidate)
	}

	if dropped > 0 {
		log.Printf("places: filtered out %d duplicate records", dropped)
	}

	return accepted
}

func (c *Collection) sortRecords() {
	sort.SliceStable(c.records, func(i, j int) bool {
		return c.records[i].Less(c.records[j])
	})
}

func (c *Collection) changed(change Change) {
	c.version++
	change.Version = c.version

	if c.onChange != nil {
		c.onChange(change)
	}
}

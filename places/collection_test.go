// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlin() *Record {
	return &Record{Name: "Berlin", DisplayName: "Berlin, Germany", Country: "Germany", Lat: 52.5200, Lon: 13.4050}
}

func hamburg() *Record {
	return &Record{Name: "Hamburg", DisplayName: "Hamburg, Germany", Country: "Germany", Lat: 53.5511, Lon: 9.9937}
}

func TestInsertOneDuplicateIsIdempotent(t *testing.T) {
	c := NewCollection()

	assert.True(t, c.InsertOne(berlin()))
	assert.False(t, c.InsertOne(berlin()))
	assert.Equal(t, 1, c.Len())
}

func TestInsertOneNilIsNoOp(t *testing.T) {
	c := NewCollection()

	assert.False(t, c.InsertOne(nil))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint64(0), c.Version())
}

func TestInsertBatchMergesNearDuplicates(t *testing.T) {
	c := NewCollection()

	c.InsertBatch([]*Record{
		berlin(),
		{Name: "Berlin Center", DisplayName: "Berlin Center, Germany", Country: "Germany", Lat: 52.5201, Lon: 13.4051},
		hamburg(),
	})

	// Berlin Center merges into Berlin by coordinate proximity; Hamburg stays.
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "Berlin, Germany", c.At(0).DisplayName)
	assert.Equal(t, "Hamburg, Germany", c.At(1).DisplayName)
}

func TestInsertBatchSelfDedupFirstSeenWins(t *testing.T) {
	c := NewCollection()

	a := &Record{Name: "Test1", DisplayName: "Test1, Country", Country: "Country", Lat: 50.0, Lon: 10.0}
	b := &Record{Name: "Test2", DisplayName: "Test2, Country", Country: "Country", Lat: 50.0009, Lon: 10.0009}

	c.InsertBatch([]*Record{a, b})

	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Test1, Country", c.At(0).DisplayName)
}

func TestCoordinateThresholdBoundary(t *testing.T) {
	c := NewCollection()

	require.True(t, c.InsertOne(&Record{Name: "Test1", DisplayName: "Test1, Country", Country: "Country", Lat: 50.0, Lon: 10.0}))

	// Delta 0.0009 < 0.001 on both axes: merged.
	assert.False(t, c.InsertOne(&Record{Name: "Test2", DisplayName: "Test2, Country", Country: "Country", Lat: 50.0009, Lon: 10.0009}))
	assert.Equal(t, 1, c.Len())

	// Delta 0.0011 >= 0.001: distinct place.
	assert.True(t, c.InsertOne(&Record{Name: "Test3", DisplayName: "Test3, Country", Country: "Country", Lat: 50.0011, Lon: 10.0011}))
	assert.Equal(t, 2, c.Len())
}

func TestNoFalseMergeAcrossCountries(t *testing.T) {
	c := NewCollection()

	c.InsertBatch([]*Record{
		{Name: "Berlin", DisplayName: "Berlin, Germany", Country: "Germany", Lat: 52.5200, Lon: 13.4050},
		{Name: "Berlin", DisplayName: "Berlin, New Hampshire, United States", Country: "United States", Lat: 44.4687, Lon: -71.1851},
	})

	assert.Equal(t, 2, c.Len())
}

func TestInsertBatchDropsNilEntries(t *testing.T) {
	c := NewCollection()

	c.InsertBatch([]*Record{nil, hamburg(), nil})

	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Hamburg", c.At(0).Name)
}

func TestInsertBatchAllDuplicatesLeavesStateUntouched(t *testing.T) {
	c := NewCollection()
	c.InsertOne(berlin())

	before := c.Version()
	c.InsertBatch([]*Record{berlin(), nil})

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, before, c.Version())
}

func TestSortedAfterEveryMutation(t *testing.T) {
	c := NewCollection()

	c.InsertBatch([]*Record{
		{Name: "Munich", DisplayName: "Munich, Germany", Country: "Germany", Lat: 48.1351, Lon: 11.5820},
		berlin(),
	})
	c.InsertOne(hamburg())
	c.InsertOne(&Record{Name: "Aachen", DisplayName: "aachen, Germany", Country: "Germany", Lat: 50.7753, Lon: 6.0839})

	records := c.Records()
	require.Len(t, records, 4)

	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].Less(records[i-1]),
			"records[%d] %q sorts before records[%d] %q", i, records[i].DisplayName, i-1, records[i-1].DisplayName)
	}
}

func TestClear(t *testing.T) {
	c := NewCollection()
	c.InsertOne(berlin())
	c.InsertOne(hamburg())

	c.Clear()
	assert.Equal(t, 0, c.Len())

	// A cleared collection behaves like a fresh one.
	assert.True(t, c.InsertOne(berlin()))
	assert.Equal(t, 1, c.Len())
}

func TestClearOnEmptyEmitsNothing(t *testing.T) {
	c := NewCollection()

	var changes []Change

	c.Notify(func(ch Change) { changes = append(changes, ch) })
	c.Clear()

	assert.Empty(t, changes)
	assert.Equal(t, uint64(0), c.Version())
}

func TestNotifications(t *testing.T) {
	c := NewCollection()

	var changes []Change

	c.Notify(func(ch Change) { changes = append(changes, ch) })

	c.InsertOne(berlin())
	c.InsertOne(berlin()) // rejected, no notification
	c.InsertBatch([]*Record{hamburg(), nil, berlin()})
	c.Clear()

	require.Len(t, changes, 3)

	assert.Equal(t, ChangeAppended, changes[0].Kind)
	assert.Equal(t, 1, changes[0].Appended)
	assert.Equal(t, uint64(1), changes[0].Version)

	assert.Equal(t, ChangeAppended, changes[1].Kind)
	assert.Equal(t, 1, changes[1].Appended)

	assert.Equal(t, ChangeReset, changes[2].Kind)
	assert.Equal(t, 0, changes[2].Appended)
	assert.Equal(t, uint64(3), changes[2].Version)
}

func TestContainsAnyDuplicateOf(t *testing.T) {
	c := NewCollection()
	c.InsertOne(berlin())

	assert.True(t, c.ContainsAnyDuplicateOf([]*Record{nil, berlin()}))
	assert.False(t, c.ContainsAnyDuplicateOf([]*Record{hamburg(), nil}))
	assert.False(t, c.ContainsAnyDuplicateOf(nil))

	// Read-only: no state or version change.
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, uint64(1), c.Version())
}

func TestAtOutOfRange(t *testing.T) {
	c := NewCollection()
	c.InsertOne(berlin())

	assert.Nil(t, c.At(-1))
	assert.Nil(t, c.At(1))
	assert.NotNil(t, c.At(0))
}

// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package nominatim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSearchRequestDefaults(t *testing.T) {
	req := NewSearchRequest("berlin")

	assert.Equal(t, "berlin", req.Query)
	assert.Equal(t, DefaultLimit, req.Limit)
	assert.True(t, req.AddressDetails)
	assert.Equal(t, "city", req.FeatureType)
	assert.Equal(t, "json", req.Format)
	assert.NoError(t, req.Validate())
}

func TestSetLimitClamps(t *testing.T) {
	req := NewSearchRequest("berlin")

	req.SetLimit(10)
	assert.Equal(t, 10, req.Limit)

	// Out-of-range values are ignored.
	req.SetLimit(0)
	assert.Equal(t, 10, req.Limit)

	req.SetLimit(101)
	assert.Equal(t, 10, req.Limit)

	req.SetLimit(100)
	assert.Equal(t, 100, req.Limit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SearchRequest)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(_ *SearchRequest) {}},
		{name: "empty query", mutate: func(r *SearchRequest) { r.Query = "" }, wantErr: true},
		{name: "whitespace query", mutate: func(r *SearchRequest) { r.Query = "   " }, wantErr: true},
		{name: "limit too low", mutate: func(r *SearchRequest) { r.Limit = 0 }, wantErr: true},
		{name: "limit too high", mutate: func(r *SearchRequest) { r.Limit = 500 }, wantErr: true},
		{name: "empty format", mutate: func(r *SearchRequest) { r.Format = "" }, wantErr: true},
		{name: "empty feature type", mutate: func(r *SearchRequest) { r.FeatureType = "" }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := NewSearchRequest("berlin")
			test.mutate(req)

			err := req.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValues(t *testing.T) {
	req := NewSearchRequest("santa fe")
	req.SetLimit(25)

	v := req.Values()

	assert.Equal(t, "santa fe", v.Get("q"))
	assert.Equal(t, "json", v.Get("format"))
	assert.Equal(t, "city", v.Get("featureType"))
	assert.Equal(t, "25", v.Get("limit"))
	assert.Equal(t, "1", v.Get("addressdetails"))
	assert.Empty(t, v.Get("exclude_place_ids"))
}

func TestValuesExcludePlaceIDs(t *testing.T) {
	req := NewSearchRequest("berlin")
	req.ExcludePlaceIDs = []int64{101, 202, 303}
	req.AddressDetails = false

	v := req.Values()

	assert.Equal(t, "101,202,303", v.Get("exclude_place_ids"))
	assert.Equal(t, "0", v.Get("addressdetails"))
}

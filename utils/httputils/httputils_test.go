// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package httputils

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"
)

// dummyRoundTripper is useful to simulate a response.
type dummyRoundTripper struct {
	response *http.Response
}

func (d *dummyRoundTripper) RoundTrip(_ *http.Request) (*http.Response, error) {
	if d.response != nil {
		return d.response, nil
	}

	return nil, nil
}

// TestLoggingRoundTripper verifies that the LoggingRoundTripper logs both the
// request and the response (including timing information).
func TestLoggingRoundTripper(t *testing.T) {
	var logBuffer bytes.Buffer

	drt := &dummyRoundTripper{
		response: &http.Response{
			Status:     "200 OK",
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("response body")),
		},
	}

	lt := &LoggingRoundTripper{
		Transport: drt,
		Writer:    &logBuffer,
		DumpBody:  true,
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.com/search", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	_, err = lt.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip returned error: %v", err)
	}

	logContent := logBuffer.String()
	if !strings.Contains(logContent, "> GET /search") {
		t.Errorf("log does not contain request info. Got: %s", logContent)
	}

	if !strings.Contains(logContent, "< RESPONSE: [") {
		t.Errorf("log does not contain response header with timing info. Got: %s", logContent)
	}

	if !strings.Contains(logContent, "response body") {
		t.Errorf("log does not contain response body. Got: %s", logContent)
	}
}

// dummyHeadersRoundTripper is used to verify that the headers are added.
type dummyHeadersRoundTripper struct {
	lastRequest *http.Request
}

func (d *dummyHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	d.lastRequest = req

	return &http.Response{
		Status:     "200 OK",
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func TestAppendRequestHeadersRoundTripper(t *testing.T) {
	dummy := &dummyHeadersRoundTripper{}

	atr := &AppendRequestHeadersRoundTripper{
		Transport: dummy,
		Headers: map[string]string{
			"User-Agent": "cityscout/test",
		},
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.org", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	_, err = atr.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip returned error: %v", err)
	}

	if dummy.lastRequest == nil {
		t.Fatalf("dummy transport did not receive any request")
	}

	if got := dummy.lastRequest.Header.Get("User-Agent"); got != "cityscout/test" {
		t.Errorf("expected User-Agent 'cityscout/test', but got '%s'", got)
	}
}

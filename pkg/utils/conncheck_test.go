package utils

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"postgresql://user:pw@db:6432/gca", "db:6432"},
		{"postgresql://user:pw@db/gca", "db:5432"},
		{"postgres://user@localhost/gca?sslmode=disable", "localhost:5432"},
		{"sqlite:///tmp/gca.db", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestExtractFromNatsURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"nats://nats:4223", "nats:4223"},
		{"nats://nats", "nats:4222"},
		{"nats://token@nats/telemetry", "nats:4222"},
		{"http://nats:4222", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromNatsURL(tt.url))
		})
	}
}

func TestWaitForTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, WaitForTCP(l.Addr().String(), time.Second))
}

func TestWaitForTCPTimeout(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	err = WaitForTCP(addr, 300*time.Millisecond)
	assert.ErrorContains(t, err, "could not be reached")
}

func TestWaitForHTTPResponse(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ok.Close()
	require.NoError(t, WaitForHTTPResponse(ok.URL, time.Second))

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	err := WaitForHTTPResponse(failing.URL, 600*time.Millisecond)
	assert.ErrorContains(t, err, "status 503")
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("lap_start"), []byte("lap_end"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, ContentHash([]byte("lap_startlap_end")))
	assert.NotEqual(t, a, ContentHash([]byte("lap_start")))
}

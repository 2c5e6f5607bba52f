package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", defaultAddr},
		{"garbage", defaultAddr},
		{"0.0.0.0:9000", "127.0.0.1:9000"},
		{":9000", "127.0.0.1:9000"},
		{"[::]:9000", "127.0.0.1:9000"},
		{"127.0.0.1:8081", "127.0.0.1:8081"},
		{"localhost:8080", "localhost:8080"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, loopbackAddr(tt.in), tt.in)
	}
}

func TestCheckHealth(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != healthPath {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(int(status.Load()))
	}))
	t.Cleanup(srv.Close)

	addr := strings.TrimPrefix(srv.URL, "http://")

	require.NoError(t, checkHealth(addr))

	status.Store(http.StatusServiceUnavailable)
	err := checkHealth(addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

// Command healthcheck checks a running folio server's health endpoint and
// exits 0 when it answers 200. It is the container HEALTHCHECK, so it takes
// the same FOLIO_LISTEN_ADDR the server binds to.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	defaultAddr  = "127.0.0.1:8080"
	healthPath   = "/api/v1/health"
	checkTimeout = 3 * time.Second
)

func main() {
	if err := checkHealth(os.Getenv("FOLIO_LISTEN_ADDR")); err != nil {
		fmt.Fprintln(os.Stderr, "folio healthcheck:", err)
		os.Exit(1)
	}
}

// checkHealth reports an error unless the server at listenAddr answers the
// health endpoint with 200. A degraded server (storage unreachable) answers
// 503 and fails the check.
func checkHealth(listenAddr string) error {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	url := "http://" + loopbackAddr(listenAddr) + healthPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return nil
}

// loopbackAddr maps the server's bind address to one this binary can dial from
// inside the same container: wildcard hosts become 127.0.0.1.
func loopbackAddr(listenAddr string) string {
	if listenAddr == "" {
		return defaultAddr
	}

	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return defaultAddr
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}

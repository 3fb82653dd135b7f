// Package network holds the HTTP client every site adapter shares.
package network

import (
	"net/http"
	"time"
)

// Client is shared by all adapters so connection pools survive across
// searches. Per-request deadlines come from contexts; the client timeout
// is only a backstop against servers that never answer.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: transport(),
}

func transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()

	// One query fans out to every enabled site at once, so the pool is
	// sized well above the default.
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200

	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second

	return t
}

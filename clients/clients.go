// Package clients talks to the remote services the pipeline depends on:
// a text-generation model for scenarios and a speech-synthesis back-end.
package clients

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request to a remote service.
const DefaultTimeout = 60 * time.Second

type HTTP struct{ c *http.Client }

func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{c: &http.Client{Timeout: timeout}}
}

package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for the identity API. Write timeouts leave room
// for training and bulk export, which run inside the request.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

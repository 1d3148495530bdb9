package main

import (
	"errors"
	"testing"
)

type closeRecorder struct {
	closed bool
	err    error
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.err
}

func TestServe_ClosesAfterServerStops(t *testing.T) {
	listenErr := errors.New("address already in use")

	res := &closeRecorder{}
	err := serve(func() error { return listenErr }, res)
	if !errors.Is(err, listenErr) {
		t.Fatalf("serve returned %v, want %v", err, listenErr)
	}
	if !res.closed {
		t.Fatal("resources were not closed after the server stopped")
	}
}

func TestServe_ReportsServerErrorOverCloseError(t *testing.T) {
	listenErr := errors.New("address already in use")

	res := &closeRecorder{err: errors.New("close failed")}
	if err := serve(func() error { return listenErr }, res); !errors.Is(err, listenErr) {
		t.Fatalf("serve returned %v, want %v", err, listenErr)
	}
	if !res.closed {
		t.Fatal("resources were not closed")
	}
}

package restapi

/*
A fake implementation of the upstream quote service itself.

The server uses this when no real upstream is configured, and tests use it to
force the upstream into specific moods (rate limited, garbage payloads).
*/

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/Pallinder/go-randomdata"
)

// FakeUpstream is an in-process quote service.
// Construct via NewFakeUpstream; Close when finished.
type FakeUpstream struct {
	srv *httptest.Server

	rateLimited atomic.Bool // answer every request with 429?
	garbage     atomic.Bool // answer every request with a payload that fails validation?
	hits        atomic.Int64
}

// NewFakeUpstream spins up a quote service on a loopback port.
func NewFakeUpstream() *FakeUpstream {
	f := &FakeUpstream{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+QuotePath, func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if f.rateLimited.Load() {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		q := Quote{
			Author: randomdata.FullName(randomdata.RandomGender),
			Text:   randomdata.Adjective() + " " + randomdata.Noun(),
		}
		if f.garbage.Load() {
			q = Quote{} // empty text fails client-side validation
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(q)
	})

	f.srv = httptest.NewServer(mux)
	return f
}

// URL returns the base url of the fake upstream.
func (f *FakeUpstream) URL() string {
	return f.srv.URL
}

// SetRateLimited toggles whether the upstream answers every request with 429.
func (f *FakeUpstream) SetRateLimited(limited bool) {
	f.rateLimited.Store(limited)
}

// SetGarbage toggles whether the upstream answers with payloads that fail validation.
func (f *FakeUpstream) SetGarbage(garbage bool) {
	f.garbage.Store(garbage)
}

// Hits returns how many requests the upstream has seen.
func (f *FakeUpstream) Hits() int64 {
	return f.hits.Load()
}

// Close shuts the fake upstream down.
func (f *FakeUpstream) Close() {
	f.srv.Close()
}

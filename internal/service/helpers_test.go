package service

import (
	"context"
	"sync"

	"estate/internal/model"
	"estate/internal/repository"
)

func ids(listings []model.Listing) []int64 {
	out := make([]int64, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func viewIDs(views []model.ListingView) []int64 {
	out := make([]int64, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func seedStore() *repository.MemoryStore {
	return repository.NewMemoryStore(model.SeedListings())
}

var adminCaller = model.Caller{UserID: 1, Role: model.RoleAdmin, SessionID: "sess-admin"}

// stubCompleter answers every completion with a fixed reply or error
type stubCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.reply, s.err
}

func (s *stubCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingAuditor keeps dispatched events in memory
type recordingAuditor struct {
	mu     sync.Mutex
	events []model.ContactDisclosed
}

func (r *recordingAuditor) Dispatch(event model.ContactDisclosed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAuditor) Events() []model.ContactDisclosed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ContactDisclosed(nil), r.events...)
}

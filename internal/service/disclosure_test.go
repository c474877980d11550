package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/model"
	"estate/internal/repository"
)

func TestMask(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"9876543210", "98XXXXXX10"},
		{"+919876543210", "+9XXXXXXXXX10"},
		{"1234", "1234"},
		{"12345", "12X45"},
		{"123", "123"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Mask(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.in))
		})
	}
}

func TestMaskListingLeavesSourceUntouched(t *testing.T) {
	l := model.SeedListings()[0]
	view := MaskListing(l, []string{ReasonGeneralMatch})
	assert.Equal(t, "98XXXXXX10", view.ContactNumber)
	assert.Equal(t, "9876543210", l.ContactNumber)
	assert.Equal(t, []string{ReasonGeneralMatch}, view.MatchedReasons)
}

func newTestGate(t *testing.T) (*DisclosureGate, *recordingAuditor) {
	t.Helper()
	ledger := NewMemoryLedger(100, time.Hour)
	t.Cleanup(ledger.Stop)
	auditor := &recordingAuditor{}
	gate := NewDisclosureGate(seedStore(), ledger, auditor)
	gate.now = func() time.Time { return time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC) }
	return gate, auditor
}

func TestRevealAuditsOncePerSession(t *testing.T) {
	gate, auditor := newTestGate(t)
	ctx := context.Background()
	caller := model.Caller{UserID: 42, Email: "c@example.com", Role: model.RoleCustomer, AgentID: 2, SessionID: "s1"}

	first, err := gate.Reveal(ctx, caller, 1)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", first.ContactNumber)
	assert.False(t, first.AlreadyRevealed)

	again, err := gate.Reveal(ctx, caller, 1)
	require.NoError(t, err)
	assert.Equal(t, "98XXXXXX10", again.ContactNumber)
	assert.True(t, again.AlreadyRevealed)

	events := auditor.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.ContactDisclosed{
		UserID:     42,
		Email:      "c@example.com",
		Role:       model.RoleCustomer,
		SessionID:  "s1",
		ListingID:  1,
		RevealedAt: time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC),
	}, events[0])

	// a new session is a new disclosure
	caller.SessionID = "s2"
	_, err = gate.Reveal(ctx, caller, 1)
	require.NoError(t, err)
	assert.Len(t, auditor.Events(), 2)
}

func TestRevealRejections(t *testing.T) {
	gate, auditor := newTestGate(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  model.Caller
		id      int64
		wantErr error
	}{
		{
			name:    "unknown role",
			caller:  model.Caller{UserID: 1, Role: "guest", SessionID: "s"},
			id:      1,
			wantErr: ErrRevealNotAllowed,
		},
		{
			name:    "missing session",
			caller:  model.Caller{UserID: 1, Role: model.RoleAdmin},
			id:      1,
			wantErr: ErrMissingSession,
		},
		{
			name:    "outside customer scope",
			caller:  model.Caller{UserID: 1, Role: model.RoleCustomer, AgentID: 2, SessionID: "s"},
			id:      4,
			wantErr: repository.ErrListingNotFound,
		},
		{
			name:    "customer without agent",
			caller:  model.Caller{UserID: 1, Role: model.RoleCustomer, SessionID: "s"},
			id:      1,
			wantErr: repository.ErrListingNotFound,
		},
		{
			name:    "unknown listing",
			caller:  model.Caller{UserID: 1, Role: model.RoleOperator, SessionID: "s"},
			id:      99,
			wantErr: repository.ErrListingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := gate.Reveal(ctx, tt.caller, tt.id)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
		})
	}
	assert.Empty(t, auditor.Events())
}

func TestMemoryLedger(t *testing.T) {
	ledger := NewMemoryLedger(10, time.Hour)
	defer ledger.Stop()
	ctx := context.Background()

	first, err := ledger.MarkRevealed(ctx, "s", 1)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = ledger.MarkRevealed(ctx, "s", 1)
	require.NoError(t, err)
	assert.False(t, first)

	first, err = ledger.MarkRevealed(ctx, "s", 2)
	require.NoError(t, err)
	assert.True(t, first)
}

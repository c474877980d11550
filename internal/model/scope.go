package model

import (
	"fmt"
	"strings"
)

// Role is the caller's platform role
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleCustomer Role = "customer"
)

// ParseRole maps a role label onto a known role
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleOperator, RoleCustomer:
		return r, true
	}
	return "", false
}

// Caller is the authenticated identity a request runs on behalf of
type Caller struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	AgentID   int64  `json:"agent_id,omitempty"` // assigned agent, customers only
	SessionID string `json:"session_id"`
}

// Scope derives the visibility partition for the caller
func (c Caller) Scope() VisibilityScope {
	return VisibilityScope{Role: c.Role, AgentID: c.AgentID}
}

// CanReveal reports whether the role may request a full contact disclosure
func (c Caller) CanReveal() bool {
	switch c.Role {
	case RoleAdmin, RoleOperator, RoleCustomer:
		return true
	}
	return false
}

// VisibilityScope is the subset of listings a caller may see
type VisibilityScope struct {
	Role    Role  `json:"role"`
	AgentID int64 `json:"agent_id,omitempty"`
}

// Unrestricted reports whether the scope sees every active listing
func (s VisibilityScope) Unrestricted() bool {
	return s.Role == RoleAdmin || s.Role == RoleOperator
}

// Allows reports whether a listing is visible in this scope
func (s VisibilityScope) Allows(l *Listing) bool {
	if l == nil || !l.Active {
		return false
	}
	if s.Unrestricted() {
		return true
	}
	if s.Role == RoleCustomer && s.AgentID > 0 {
		return l.AgentID == s.AgentID
	}
	return false
}

// Key identifies the scope in cache keys
func (s VisibilityScope) Key() string {
	if s.Unrestricted() {
		return "all"
	}
	return fmt.Sprintf("%s:%d", s.Role, s.AgentID)
}

// Package model defines the data structures shared across layers.
package model

import "time"

// Status is the review/compilation state of a snippet for one user.
// It is reset to StatusPending on create and on every edit, signalling
// that the compilation pipeline must re-evaluate the code.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusCompliant    Status = "COMPLIANT"
	StatusNotCompliant Status = "NOT_COMPLIANT"
)

// Valid reports whether s is one of the known review states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompliant, StatusNotCompliant:
		return true
	}
	return false
}

// Snippet is the metadata record for one piece of stored source code.
// The code body itself lives in the blob store, keyed by ID.
//
// ID is assigned at insert time and immutable. Language and Author are
// set once at creation and never reassigned.
type Snippet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SnippetStatus is the per-(snippet, user) review state. A snippet may
// have independent rows per collaborator; at most one row exists per
// (SnippetID, UserEmail) pair.
type SnippetStatus struct {
	SnippetID string    `json:"snippetId"`
	UserEmail string    `json:"userEmail"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SnippetView is the full view returned by create, edit and get: the
// metadata row combined with the code body from the blob store.
type SnippetView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Code     string `json:"code"`
	Author   string `json:"author"`
}

// SnippetSummary is the lightweight search view. No code body; Status is
// the requesting user's own status row, empty if they are the author but
// the snippet was never shared back to them.
type SnippetSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Author   string `json:"author"`
	Status   Status `json:"status,omitempty"`
}

// Filter holds the free-form search criteria. Zero values mean "no
// constraint on this field".
type Filter struct {
	Name     string `json:"name,omitempty"`     // substring match on snippet name
	Language string `json:"language,omitempty"` // exact language tag
	Status   Status `json:"status,omitempty"`   // requesting user's review state
}

// Page is one page of search results plus standard pagination metadata.
type Page struct {
	Items      []SnippetSummary `json:"items"`
	Page       int              `json:"page"` // zero-based
	Size       int              `json:"size"`
	TotalCount int              `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
}

package store

import "github.com/google/uuid"

// NewName returns a fresh document name. A non-empty prefix is joined to the
// generated part with a dash.
func NewName(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

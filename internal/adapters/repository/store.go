// Package repository holds the in-memory member registry and its errors.
package repository

import (
	"context"

	"github.com/okian/persona/internal/domain/model"
)

// Stats is a point-in-time size of the registry.
type Stats struct {
	Groups  int `json:"groups"`
	Members int `json:"members"`
}

// Registry stores matched members per group.
type Registry interface {
	// Upsert stores rec under (groupID, rec.MemberID), replacing any earlier
	// record for that member. created reports whether the member was new.
	Upsert(ctx context.Context, groupID string, rec model.MemberRecord) (created bool, err error)

	// Get returns the member's record or ErrNotFound.
	Get(ctx context.Context, groupID, memberID string) (model.MemberRecord, error)

	// Remove deletes the member and reports whether it existed.
	Remove(ctx context.Context, groupID, memberID string) bool

	// List returns the group's records in first-insertion order. Unknown
	// groups yield an empty slice.
	List(ctx context.Context, groupID string) []model.MemberRecord

	// Stats counts groups and members.
	Stats(ctx context.Context) Stats
}

// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/persona/internal/domain/trait"
)

// MemberRecord is the latest match stored for a member of a group.
type MemberRecord struct {
	MemberID   string       `json:"member_id"`
	Traits     trait.Vector `json:"traits"` // raw 0..120 scores
	Role       string       `json:"role"`
	Department string       `json:"department"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

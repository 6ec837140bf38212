package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusApproved    = "approved"
	ApplicationStatusRejected    = "rejected"
)

// applicationTransitions lists the statuses reachable from each status.
// Approved and rejected are terminal.
var applicationTransitions = map[string][]string{
	ApplicationStatusSubmitted:   {ApplicationStatusUnderReview, ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusUnderReview: {ApplicationStatusApproved, ApplicationStatusRejected},
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range applicationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ClubApplication is a join request submitted from the public form. Rows are
// never deleted.
type ClubApplication struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	ClubID        *uint                       `gorm:"index" json:"club_id"`
	ApplicantName string                      `gorm:"size:255;not null" json:"applicant_name"`
	Email         string                      `gorm:"size:255;not null;index" json:"email"`
	Phone         string                      `gorm:"size:50" json:"phone"`
	PreferredClub string                      `gorm:"size:255" json:"preferred_club"`
	Interests     datatypes.JSONSlice[string] `json:"interests"`
	Motivation    string                      `gorm:"type:text" json:"motivation"`
	Answers       datatypes.JSONMap           `json:"answers"`
	Status        string                      `gorm:"size:50;not null;default:'submitted';index" json:"status"`
	ReviewedBy    *string                     `gorm:"size:255" json:"reviewed_by"`
	ReviewerLabel string                      `gorm:"size:255" json:"reviewer_label,omitempty"`
	ReviewedAt    *time.Time                  `json:"reviewed_at"`
	Notes         string                      `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	Club     *Club `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy;constraint:OnDelete:SET NULL" json:"-"`
}

package models

import "time"

const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// ValidEventStatus reports whether s is one of the four event states.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

type ClubEvent struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	ClubID              uint      `gorm:"not null;index" json:"club_id"`
	Title               string    `gorm:"size:255;not null" json:"title"`
	Description         string    `gorm:"type:text" json:"description"`
	EventDate           time.Time `gorm:"not null;index" json:"event_date"`
	Location            string    `gorm:"size:255" json:"location"`
	MaxParticipants     *int      `json:"max_participants"`
	CurrentParticipants int       `gorm:"not null;default:0" json:"current_participants"`
	Status              string    `gorm:"size:50;not null;default:'upcoming';index" json:"status"`
	CreatedBy           *string   `gorm:"size:255" json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Creator      *User              `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
	Participants []EventParticipant `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// Full reports whether a capped event has no free places left.
func (e *ClubEvent) Full() bool {
	return e.MaxParticipants != nil && e.CurrentParticipants >= *e.MaxParticipants
}

type EventParticipant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_participant_event_user,priority:1" json:"event_id"`
	UserID       string    `gorm:"size:255;not null;uniqueIndex:idx_participant_event_user,priority:2;index" json:"user_id"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
	Attended     bool      `gorm:"not null;default:false" json:"attended"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

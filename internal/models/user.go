package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminSubject is the token subject of the configuration-backed admin
// principal. No users row may carry it as an id.
const AdminSubject = "admin"

var ErrReservedUserID = errors.New("user id is reserved")

// User is an account. The id is a string so that identities issued by an
// external provider can be stored unchanged.
type User struct {
	ID              string                      `gorm:"primaryKey;size:255" json:"id"`
	Email           string                      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash    string                      `gorm:"size:255" json:"-"`
	FirstName       string                      `gorm:"size:255" json:"first_name"`
	LastName        string                      `gorm:"size:255" json:"last_name"`
	ProfileImageURL string                      `gorm:"size:500" json:"profile_image_url,omitempty"`
	Bio             string                      `gorm:"type:text" json:"bio"`
	Phone           string                      `gorm:"size:50" json:"phone"`
	Location        string                      `gorm:"size:255" json:"location"`
	Interests       datatypes.JSONSlice[string] `json:"interests"`
	IsAdmin         bool                        `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`

	// Set by BeforeDelete so AfterDelete can recount what the cascade removed.
	joinedClubs      []uint
	registeredEvents []uint
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.ID == AdminSubject {
		return ErrReservedUserID
	}
	if u.Interests == nil {
		u.Interests = datatypes.JSONSlice[string]{}
	}
	return nil
}

// BeforeDelete remembers the clubs and events the user counts towards.
// Their rows go with ON DELETE CASCADE, which does not touch the counters.
func (u *User) BeforeDelete(tx *gorm.DB) error {
	if u.ID == "" {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})
	if err := db.Model(&ClubMembership{}).Where("user_id = ? AND is_active = ?", u.ID, true).
		Pluck("club_id", &u.joinedClubs).Error; err != nil {
		return err
	}
	return db.Model(&EventParticipant{}).Where("user_id = ?", u.ID).
		Pluck("event_id", &u.registeredEvents).Error
}

// AfterDelete recounts member_count and current_participants.
func (u *User) AfterDelete(tx *gorm.DB) error {
	db := tx.Session(&gorm.Session{NewDB: true})
	if len(u.joinedClubs) > 0 {
		members := db.Model(&ClubMembership{}).Select("COUNT(*)").
			Where("club_memberships.club_id = clubs.id AND club_memberships.is_active = ?", true)
		if err := db.Model(&Club{}).Where("id IN ?", u.joinedClubs).
			UpdateColumn("member_count", members).Error; err != nil {
			return err
		}
	}
	if len(u.registeredEvents) > 0 {
		participants := db.Model(&EventParticipant{}).Select("COUNT(*)").
			Where("event_participants.event_id = club_events.id")
		if err := db.Model(&ClubEvent{}).Where("id IN ?", u.registeredEvents).
			UpdateColumn("current_participants", participants).Error; err != nil {
			return err
		}
	}
	return nil
}

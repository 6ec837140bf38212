package models

import (
	"time"

	"gorm.io/datatypes"
)

// SocialLinks maps a platform name (facebook, instagram, ...) to a profile URL.
type SocialLinks map[string]string

type Club struct {
	ID              uint                            `gorm:"primaryKey" json:"id"`
	Name            string                          `gorm:"size:255;not null;index" json:"name"`
	Description     string                          `gorm:"type:text;not null" json:"description"`
	LongDescription string                          `gorm:"type:text" json:"long_description,omitempty"`
	Image           string                          `gorm:"size:500" json:"image,omitempty"`
	Location        string                          `gorm:"size:255;not null;index" json:"location"`
	MemberCount     int                             `gorm:"not null;default:0" json:"member_count"`
	Features        datatypes.JSONSlice[string]     `json:"features"`
	ContactPhone    string                          `gorm:"size:50" json:"contact_phone,omitempty"`
	ContactEmail    string                          `gorm:"size:255" json:"contact_email,omitempty"`
	Website         string                          `gorm:"size:500" json:"website,omitempty"`
	SocialMedia     datatypes.JSONType[SocialLinks] `json:"social_media"`
	Rating          int                             `gorm:"not null;default:5" json:"rating"`
	Established     string                          `gorm:"size:50" json:"established,omitempty"`
	IsActive        bool                            `gorm:"not null;default:true" json:"is_active"`
	OwnerID         *string                         `gorm:"size:255;index" json:"owner_id"`
	CreatedAt       time.Time                       `json:"created_at"`
	UpdatedAt       time.Time                       `json:"updated_at"`

	Owner       *User            `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
	Memberships []ClubMembership `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Events      []ClubEvent      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Gallery     []ClubGallery    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Reviews     []ClubReview     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

const (
	MembershipRoleMember    = "member"
	MembershipRoleModerator = "moderator"
	MembershipRoleAdmin     = "admin"
)

// ClubMembership links a user to a club. There is one row per (user, club);
// leaving clears IsActive and joining again sets it.
type ClubMembership struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   string    `gorm:"size:255;not null;uniqueIndex:idx_membership_user_club,priority:1" json:"user_id"`
	ClubID   uint      `gorm:"not null;uniqueIndex:idx_membership_user_club,priority:2;index" json:"club_id"`
	Role     string    `gorm:"size:50;not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type ClubGallery struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClubID     uint      `gorm:"not null;index" json:"club_id"`
	ImageURL   string    `gorm:"size:500;not null" json:"image_url"`
	Caption    string    `gorm:"size:255" json:"caption,omitempty"`
	UploadedBy *string   `gorm:"size:255" json:"uploaded_by"`
	UploadedAt time.Time `gorm:"not null" json:"uploaded_at"`

	Uploader *User `gorm:"foreignKey:UploadedBy;constraint:OnDelete:SET NULL" json:"-"`
}

func (ClubGallery) TableName() string {
	return "club_gallery"
}

type ClubReview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClubID    uint      `gorm:"not null;index" json:"club_id"`
	UserID    string    `gorm:"size:255;not null;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

package models

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInvited  UserStatus = "invited"
	UserStatusDisabled UserStatus = "disabled"
)

type User struct {
	Base
	Username         string     `json:"username,omitempty" gorm:"uniqueIndex"`
	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	FullName         string     `json:"full_name,omitempty"`
	IsActive         bool       `json:"is_active"`
	IsAdmin          bool       `json:"is_admin"`
	Status           UserStatus `json:"status"`
	InvitationToken  string     `json:"invitation_token,omitempty"`
	InvitationExpiry string     `json:"invitation_expiry,omitempty"`
}

type UserCreate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password,omitempty"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

type UserUpdate struct {
	Username *string     `json:"username,omitempty"`
	Email    *string     `json:"email,omitempty"`
	FullName *string     `json:"full_name,omitempty"`
	IsActive *bool       `json:"is_active,omitempty"`
	IsAdmin  *bool       `json:"is_admin,omitempty"`
	Status   *UserStatus `json:"status,omitempty"`
}

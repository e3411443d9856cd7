package domain

import "time"

// AccountType is the account category a user declares at registration.
type AccountType string

const (
	AccountTypeUser    AccountType = "user"
	AccountTypeArtisan AccountType = "artisan"
	AccountTypeTourist AccountType = "tourist"
)

// Role controls what a profile may do.
type Role string

const (
	RoleUser    Role = "user"
	RoleArtisan Role = "artisan"
	RoleAdmin   Role = "admin"
)

// ProfileStatus tracks artisan approval.
type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusApproved ProfileStatus = "approved"
	ProfileStatusRejected ProfileStatus = "rejected"
)

// UserProfile is the per-identity profile document.
type UserProfile struct {
	UID         string
	FullName    string
	Email       string
	PhoneNumber string
	City        string
	AccountType AccountType
	AvatarURL   string
	Role        Role
	Status      ProfileStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultRole returns the role assigned when none is set: artisan accounts
// get the artisan role, everyone else is a plain user.
func DefaultRole(accountType AccountType) Role {
	if accountType == AccountTypeArtisan {
		return RoleArtisan
	}
	return RoleUser
}

// DefaultStatus returns the approval status assigned when none is set:
// artisans start pending review, everyone else is approved immediately.
func DefaultStatus(accountType AccountType) ProfileStatus {
	if accountType == AccountTypeArtisan {
		return ProfileStatusPending
	}
	return ProfileStatusApproved
}

// IsApprovedArtisan reports whether the profile may own experiences.
func (p *UserProfile) IsApprovedArtisan() bool {
	return p.Role == RoleArtisan && p.Status == ProfileStatusApproved
}

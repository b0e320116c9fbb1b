package domain

import "time"

// User models a registered account. Username is the identity key and never
// changes after creation.
type User struct {
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone"`
	JoinAt       time.Time  `json:"join_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// UserSummary is the projection used when listing users.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserContact is the projection embedded in message views.
type UserContact struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Contact returns the message-view projection of u.
func (u *User) Contact() UserContact {
	return UserContact{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// Summary returns the listing projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

package models

// User represents a user in the system.
// Password is opaque and stored exactly as given.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

func (u User) WithID(id int64) User {
	u.ID = id
	return u
}

func (u User) Clone() User { return u }

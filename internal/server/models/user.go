package models

// User is a registered account. The password hash never crosses the JSON
// boundary.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

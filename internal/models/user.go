package models

// User is a registered account. The messaging core only ever checks
// existence by username; credentials are used by the auth endpoints.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"uniqueIndex;size:50"`
	Email     string `json:"email" gorm:"uniqueIndex;size:100"`
	Password  string `json:"-" gorm:"size:256"`
	ResetCode string `json:"-" gorm:"size:6"`
}

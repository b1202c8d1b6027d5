package user

import "time"

// User represents a directory entry. ID is assigned by the store on first
// save and never changes afterwards.
type User struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	BirthDate time.Time `json:"birthDate"`
	UserType  UserType  `json:"userType"`
}

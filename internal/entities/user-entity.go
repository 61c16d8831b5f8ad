package entities

import (
	"time"
)

type User struct {
	ID        uint64 `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`

	// Пустой пароль: пользователь создан админом и ещё не задал его.
	Password *string `json:"-" db:"password"`

	IsAdmin    bool       `json:"isAdmin" db:"is_admin"`
	CreatedBy  *uint64    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt  time.Time  `json:"createdOn" db:"created_at"`
	LastSignIn *time.Time `json:"lastSignIn,omitempty" db:"last_sign_in"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

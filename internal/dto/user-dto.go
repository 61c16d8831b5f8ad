package dto

type CreateUserDTO struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	IsAdmin   bool   `json:"isAdmin"`
}

type UpdateUserDTO struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	IsAdmin   *bool   `json:"isAdmin,omitempty"`
}

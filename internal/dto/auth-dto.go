package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type EmailDTO struct {
	Email string `json:"email" validate:"required,email"`
}

// CreatePasswordDTO - первичная установка пароля пользователем, созданным админом.
type CreatePasswordDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type HasPasswordDTO struct {
	Email       string `json:"email"`
	HasPassword bool   `json:"hasPassword"`
}

package auth

import "github.com/eldieng/Fawsayni-Tech/internal/models"

type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateMeRequest holds the only fields a user may change on their profile.
type UpdateMeRequest struct {
	Name  *string `json:"name" validate:"omitnil,required"`
	Email *string `json:"email" validate:"omitnil,required,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=NewPassword"`
}

type UserData struct {
	User models.User `json:"user"`
}

type TokenResponse struct {
	Status string   `json:"status"`
	Token  string   `json:"token"`
	Data   UserData `json:"data"`
}

type UserList struct {
	Status      string `json:"status"`
	Results     int    `json:"results"`
	TotalUsers  int    `json:"totalUsers"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Data        struct {
		Users []models.User `json:"users"`
	} `json:"data"`
}

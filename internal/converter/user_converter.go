package converter

import (
	"healthcare-appointment-api/internal/delivery/dto"
	"healthcare-appointment-api/internal/domain/entity"
)

func UserToAuthResponse(user *entity.User, token string, expiresIn int64) *dto.AuthResponse {
	return &dto.AuthResponse{
		Token:     token,
		Username:  user.Username,
		Roles:     user.Roles.Names(),
		ExpiresIn: expiresIn,
	}
}

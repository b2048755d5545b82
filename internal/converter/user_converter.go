package converter

import (
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Role is empty unless it was preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role.RoleName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

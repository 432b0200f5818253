// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1,max=40"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type AdminUpdateUserRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1,max=40"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role  *string `json:"role,omitempty"  validate:"omitempty,oneof=user admin manager"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Role     string `json:"role"`
	Search   string `json:"search"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}

	if u.PhotoURL != nil {
		resp.PhotoURL = *u.PhotoURL
	}

	return resp
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}

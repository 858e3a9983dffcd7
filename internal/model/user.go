package model

import (
	"database/sql"
	"time"
)

// User — запись пользователя. Password и RefreshToken никогда не сериализуются
// в ответ, наружу уходит только PublicUser.
type User struct {
	Id           string         `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	FullName     string         `db:"full_name"`
	Avatar       string         `db:"avatar"`
	CoverImage   string         `db:"cover_image"`
	Password     string         `db:"password"`
	RefreshToken sql.NullString `db:"refresh_token"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// PublicUser — публичная проекция пользователя
// swagger:model
type PublicUser struct {
	Id         string    `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Username   string    `json:"username" example:"ana"`
	Email      string    `json:"email" example:"ana@x.com"`
	FullName   string    `json:"fullName" example:"Ana Petrova"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (user *User) Public() *PublicUser {
	return &PublicUser{
		Id:         user.Id,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

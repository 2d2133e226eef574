package domain

import (
	"errors"

	"github.com/google/uuid"
)

var ErrTokenInvalid = errors.New("token is invalid")

// Роли, которым разрешен подбор
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// Claims - данные пользователя из проверенного токена
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// Package models содержит доменные модели магазина: пользователей,
// товары и корзины. Структуры используются в бизнес‑логике и при
// работе с хранилищем.
package models

import "time"

// Role роль пользователя в системе. Закрытое множество из двух значений.
type Role string

const (
	// RoleUser обычный пользователь, роль по умолчанию при регистрации.
	RoleUser Role = "user"
	// RoleAdmin администратор с доступом к панели управления.
	RoleAdmin Role = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    `json:"uid"`       // Уникальный идентификатор пользователя
	Email        string    `json:"email"`     // Электронная почта (уникальная)
	FullName     string    `json:"full_name"` // Полное имя пользователя
	PasswordHash string    `json:"-"`         // Хэш пароля, никогда не сериализуется
	Role         Role      `json:"role"`      // Роль пользователя, admin или user
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

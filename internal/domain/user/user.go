package user

import (
	"errors"
	"time"
)

// Roles as stored in the users.rol column.
const (
	RoleSuper   = "super"
	RoleAdmin   = "admin"
	RoleUsuario = "usuario"
)

type User struct {
	ID           int64     `json:"id"`
	Nombre       string    `json:"nombre"`
	Correo       string    `json:"correo"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Rol          string    `json:"rol"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("user not found")

// error if the correo is already registered
var ErrCorreoTaken = errors.New("correo already registered")

func IsValidRole(rol string) bool {
	switch rol {
	case RoleSuper, RoleAdmin, RoleUsuario:
		return true
	}
	return false
}

type RegisterRequest struct {
	Nombre     string `json:"nombre" binding:"required,min=2,max=120"`
	Correo     string `json:"correo" binding:"required,email"`
	Contrasena string `json:"contraseña" binding:"required,min=6"`
	Rol        string `json:"rol" binding:"omitempty,oneof=super admin usuario"`
}

type LoginRequest struct {
	Correo     string `json:"correo" binding:"required,email"`
	Contrasena string `json:"contraseña" binding:"required"`
}

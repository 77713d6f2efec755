package api

import "strings"

// UserRequest is the body of create and update calls. Either FullName or
// Nombre and Apellido may be sent; Rol and Role both select a role by name.
type UserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      string `json:"rol"`
	Role     string `json:"role"`
}

// UserResponse is the public representation of a user. It never carries the
// password hash.
type UserResponse struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Nombre   string   `json:"nombre"`
	Apellido string   `json:"apellido"`
	Roles    []string `json:"roles"`
	Rol      string   `json:"rol"`
}

// LoginRequest is the body of a login call
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse confirms a successful login. No token is issued.
type LoginResponse struct {
	UserResponse
	Message string `json:"message"`
}

// fullName prefers an explicit full name and otherwise joins nombre and
// apellido with a single space
func (r UserRequest) fullName() string {
	if name := strings.TrimSpace(r.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(r.Nombre) + " " + strings.TrimSpace(r.Apellido))
}

func (r UserRequest) roleSelector() string {
	if r.Rol != "" {
		return r.Rol
	}
	return r.Role
}

// splitFullName splits on the first space: "Ana María López" becomes
// "Ana" and "María López"
func splitFullName(fullName string) (nombre, apellido string) {
	nombre, apellido, _ = strings.Cut(strings.TrimSpace(fullName), " ")
	return nombre, strings.TrimSpace(apellido)
}

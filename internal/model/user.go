package model

import (
	"bytes"
	"fmt"
	"time"
)

// Valid roles for a user.
const (
	RoleCliente = "cliente"
	RoleAdmin   = "admin"
)

// ValidRole reports whether r is one of the accepted roles.
func ValidRole(r string) bool {
	return r == RoleCliente || r == RoleAdmin
}

// ActiveFlag is the 0/1 state of a user. The wire format accepts the JSON
// numbers 0 and 1 and the numeric strings "0" and "1"; anything else is
// rejected at decode time.
type ActiveFlag int

const (
	// Inactive marks a disabled user.
	Inactive ActiveFlag = 0
	// Active marks an enabled user.
	Active ActiveFlag = 1
)

// CoerceActive converts a loosely decoded JSON value into an ActiveFlag.
// The accepted input set is the numbers 0 and 1 and the numeric strings "0"
// and "1"; every other value is an error.
func CoerceActive(v interface{}) (ActiveFlag, error) {
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return Inactive, nil
		}
		if t == 1 {
			return Active, nil
		}
	case string:
		if t == "0" {
			return Inactive, nil
		}
		if t == "1" {
			return Active, nil
		}
	}
	return Inactive, fmt.Errorf("valor no admitido para activo: %v", v)
}

// UnmarshalJSON implements the strict coercion set {0, 1, "0", "1"}.
func (f *ActiveFlag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "0", `"0"`:
		*f = Inactive
	case "1", `"1"`:
		*f = Active
	default:
		return fmt.Errorf("valor no admitido para activo: %s", data)
	}
	return nil
}

// User represents a row of the usuarios table.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"nombre" gorm:"column:nombre;size:255;not null"`
	Email        string     `json:"email" gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Role         string     `json:"rol" gorm:"column:rol;size:50;not null;default:'cliente'"`
	Active       ActiveFlag `json:"activo" gorm:"column:activo;not null;default:1"`
	CreatedAt    time.Time  `json:"creado_en" gorm:"column:creado_en;autoCreateTime"`
}

// TableName keeps the legacy table name.
func (User) TableName() string {
	return "usuarios"
}

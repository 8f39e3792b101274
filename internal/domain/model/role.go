package model

import "strings"

// JWTのroleクレーム
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleUser, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

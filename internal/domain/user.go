package domain

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "普通员工"
	RoleAdmin    Role = "管理员"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Grade        string    `json:"grade"`
	Level        string    `json:"level"`
	Function     string    `json:"function"`
	PositionID   *int64    `json:"positionId"`
	DMTID        *int64    `json:"dmtId"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

package dto

import (
	"encoding/json"

	"github.com/aarondl/null/v8"
)

// CreateLocalBranchDTO проверяет только наличие полей. Формат не ограничивается.
type CreateLocalBranchDTO struct {
	UserID     string  `json:"userId" validate:"required"`
	BranchName string  `json:"branchName" validate:"required"`
	BranchCode string  `json:"branchCode" validate:"required"`
	Email      string  `json:"email" validate:"required"`
	Password   string  `json:"password" validate:"required"`
	Phone      *string `json:"phone,omitempty"`
}

// UpdateLocalBranchDTO - разрешённый список полей для обновления.
// UserID и BranchName хранят сырой JSON: любое их присутствие, включая null, отклоняется.
type UpdateLocalBranchDTO struct {
	UserID     json.RawMessage `json:"userId"`
	BranchName json.RawMessage `json:"branchName"`

	BranchCode null.String `json:"branchCode" validate:"omitempty,branch_code"`
	Email      null.String `json:"email" validate:"omitempty,email"`
	Password   null.String `json:"password"`
	Phone      null.String `json:"phone" validate:"omitempty,phone"`
}

type LocalBranchLoginDTO struct {
	UserID   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LocalBranchDTO - публичная проекция, без хеша пароля.
type LocalBranchDTO struct {
	UserID     string  `json:"userId"`
	BranchName string  `json:"branchName"`
	BranchCode string  `json:"branchCode"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
}

type LoginResultDTO struct {
	Token  string
	Branch LocalBranchDTO
}

type BranchResponse struct {
	Message string         `json:"message"`
	Branch  LocalBranchDTO `json:"branch"`
}

type BranchListResponse struct {
	Message  string           `json:"message"`
	Branches []LocalBranchDTO `json:"branches"`
}

type LoginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	Branch  LocalBranchDTO `json:"branch"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

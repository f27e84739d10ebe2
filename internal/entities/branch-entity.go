package entities

import (
	"local-branch/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// LocalBranch - учётная запись локального филиала.
// PasswordHash никогда не покидает сервисный слой.
type LocalBranch struct {
	ID           uuid.UUID
	UserID       string
	BranchName   string
	BranchCode   string
	Email        string
	PasswordHash string
	Phone        null.String

	types.BaseEntity
}

package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"local-branch/internal/dto"
	"local-branch/internal/services"
	apperrors "local-branch/pkg/errors"
)

// SeedDemoBranch создаёт филиал через сервис, чтобы пароль хешировался тем же путём, что и в API.
// Возвращает false, если филиал с таким кодом или email уже есть.
func SeedDemoBranch(ctx context.Context, branchService services.LocalBranchServiceInterface, payload dto.CreateLocalBranchDTO) (bool, error) {
	log.Printf("  - Creating demo local branch %q...", payload.UserID)

	branch, err := branchService.CreateBranch(ctx, payload)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			log.Println("    - Local branch already exists. Skipping.")
			return false, nil
		}
		return false, fmt.Errorf("failed to seed local branch %q: %w", payload.UserID, err)
	}

	log.Printf("    - Local branch %q (%s) created.", branch.UserID, branch.BranchCode)
	return true, nil
}

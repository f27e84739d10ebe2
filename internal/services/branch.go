package services

import (
	"context"
	"errors"
	"strings"

	"local-branch/internal/dto"
	"local-branch/internal/entities"
	"local-branch/internal/repositories"
	apperrors "local-branch/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	msgAllFieldsRequired   = "All fields are required."
	msgBranchExists        = "Local branch with this local branch code or email already exists."
	msgLoginFieldsRequired = "Please provide both user ID and password."
	msgUnknownUserID       = "Local branch with this user ID does not exist."
	msgInvalidPassword     = "Invalid password."
	msgBranchNotFound      = "Local branch not found."
	msgPasswordTooLong     = "Password must not exceed 72 bytes."
)

// bcrypt учитывает только первые 72 байта пароля.
const maxPasswordBytes = 72

type LocalBranchServiceInterface interface {
	CreateBranch(ctx context.Context, payload dto.CreateLocalBranchDTO) (*dto.LocalBranchDTO, error)
	Login(ctx context.Context, payload dto.LocalBranchLoginDTO) (*dto.LoginResultDTO, error)
	UpdateBranch(ctx context.Context, userID string, payload dto.UpdateLocalBranchDTO) (*dto.LocalBranchDTO, error)
	GetBranches(ctx context.Context) ([]dto.LocalBranchDTO, error)
	GetBranch(ctx context.Context, userID string) (*dto.LocalBranchDTO, error)
}

type LocalBranchService struct {
	branchRepo  repositories.LocalBranchRepositoryInterface
	txManager   repositories.TxManagerInterface
	authService AuthServiceInterface
	logger      *zap.Logger
}

func NewLocalBranchService(
	branchRepo repositories.LocalBranchRepositoryInterface,
	txManager repositories.TxManagerInterface,
	authService AuthServiceInterface,
	logger *zap.Logger,
) LocalBranchServiceInterface {
	return &LocalBranchService{
		branchRepo:  branchRepo,
		txManager:   txManager,
		authService: authService,
		logger:      logger,
	}
}

func localBranchEntityToDTO(entity *entities.LocalBranch) dto.LocalBranchDTO {
	return dto.LocalBranchDTO{
		UserID:     entity.UserID,
		BranchName: entity.BranchName,
		BranchCode: entity.BranchCode,
		Email:      entity.Email,
		Phone:      entity.Phone.Ptr(),
	}
}

func isBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func passwordTooLong(password string) bool {
	return len(password) > maxPasswordBytes
}

// asHttpError оставляет HttpError как есть, остальное превращает в 500.
func asHttpError(err error, details map[string]interface{}) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return apperrors.NewInternalError(err, details)
}

func (s *LocalBranchService) CreateBranch(ctx context.Context, payload dto.CreateLocalBranchDTO) (*dto.LocalBranchDTO, error) {
	if isBlank(payload.UserID, payload.BranchName, payload.BranchCode, payload.Email, payload.Password) {
		return nil, apperrors.NewBadRequestError(msgAllFieldsRequired)
	}
	if passwordTooLong(payload.Password) {
		return nil, apperrors.NewBadRequestError(msgPasswordTooLong)
	}

	logger := s.logger.With(zap.String("userID", payload.UserID), zap.String("branchCode", payload.BranchCode))

	entity := &entities.LocalBranch{
		ID:         uuid.New(),
		UserID:     payload.UserID,
		BranchName: payload.BranchName,
		BranchCode: payload.BranchCode,
		Email:      payload.Email,
		Phone:      null.StringFromPtr(payload.Phone),
	}
	if payload.Phone != nil && *payload.Phone == "" {
		entity.Phone = null.String{}
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		exists, err := s.branchRepo.ExistsByCodeOrEmail(ctx, tx, payload.BranchCode, payload.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError(msgBranchExists, nil)
		}

		hash, err := s.authService.HashPassword(payload.Password)
		if err != nil {
			return err
		}
		entity.PasswordHash = hash

		return s.branchRepo.CreateLocalBranch(ctx, tx, entity)
	})
	if err != nil {
		// Гонка между проверкой и вставкой ловится уникальными индексами.
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("CreateBranch: unique constraint violated", zap.Error(err))
			return nil, apperrors.NewConflictError(msgBranchExists, err)
		}
		return nil, asHttpError(err, map[string]interface{}{"operation": "CreateBranch", "userID": payload.UserID})
	}

	logger.Info("CreateBranch: local branch created")
	result := localBranchEntityToDTO(entity)
	return &result, nil
}

func (s *LocalBranchService) Login(ctx context.Context, payload dto.LocalBranchLoginDTO) (*dto.LoginResultDTO, error) {
	if isBlank(payload.UserID) || payload.Password == "" {
		return nil, apperrors.NewBadRequestError(msgLoginFieldsRequired)
	}

	logger := s.logger.With(zap.String("userID", payload.UserID))

	if err := s.authService.CheckLockout(ctx, payload.UserID); err != nil {
		return nil, err
	}

	branch, err := s.branchRepo.FindByUserID(ctx, nil, payload.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("Login: unknown user ID")
			return nil, apperrors.NewBadRequestError(msgUnknownUserID)
		}
		return nil, apperrors.NewInternalError(err, map[string]interface{}{"operation": "Login", "userID": payload.UserID})
	}

	// Хранимые пароли не длиннее 72 байт, более длинный совпасть не может.
	ok := false
	if !passwordTooLong(payload.Password) {
		ok, err = s.authService.VerifyPassword(payload.Password, branch.PasswordHash)
		if err != nil {
			return nil, apperrors.NewInternalError(err, map[string]interface{}{"operation": "Login", "userID": payload.UserID})
		}
	}
	if !ok {
		s.authService.RegisterFailedLogin(ctx, payload.UserID)
		logger.Info("Login: invalid password")
		return nil, apperrors.NewBadRequestError(msgInvalidPassword)
	}

	s.authService.ResetLoginAttempts(ctx, payload.UserID)

	token, err := s.authService.IssueToken(branch.UserID, branch.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err, map[string]interface{}{"operation": "Login", "userID": payload.UserID})
	}

	logger.Info("Login: local branch logged in")
	return &dto.LoginResultDTO{Token: token, Branch: localBranchEntityToDTO(branch)}, nil
}

// checkProtectedFields отклоняет userId и branchName при любом значении, включая null.
func checkProtectedFields(payload dto.UpdateLocalBranchDTO) error {
	if payload.UserID != nil {
		return apperrors.NewBadRequestError("userId cannot be updated.")
	}
	if payload.BranchName != nil {
		return apperrors.NewBadRequestError("branchName cannot be updated.")
	}
	required := []struct {
		name  string
		value null.String
	}{
		{"branchCode", payload.BranchCode},
		{"email", payload.Email},
		{"password", payload.Password},
	}
	for _, field := range required {
		if field.value.Valid && strings.TrimSpace(field.value.String) == "" {
			return apperrors.NewBadRequestError(field.name + " cannot be empty.")
		}
	}
	if payload.Password.Valid && passwordTooLong(payload.Password.String) {
		return apperrors.NewBadRequestError(msgPasswordTooLong)
	}
	return nil
}

func (s *LocalBranchService) UpdateBranch(ctx context.Context, userID string, payload dto.UpdateLocalBranchDTO) (*dto.LocalBranchDTO, error) {
	if err := checkProtectedFields(payload); err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("userID", userID))

	var updated *entities.LocalBranch
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		branch, err := s.branchRepo.FindByUserID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError(msgBranchNotFound)
			}
			return err
		}

		if payload.BranchCode.Valid {
			branch.BranchCode = payload.BranchCode.String
		}
		if payload.Email.Valid {
			branch.Email = payload.Email.String
		}
		if payload.Phone.Valid {
			if payload.Phone.String == "" {
				branch.Phone = null.String{}
			} else {
				branch.Phone = payload.Phone
			}
		}
		if payload.Password.Valid {
			hash, err := s.authService.HashPassword(payload.Password.String)
			if err != nil {
				return err
			}
			branch.PasswordHash = hash
		}

		if err := s.branchRepo.UpdateLocalBranch(ctx, tx, branch); err != nil {
			return err
		}
		updated = branch
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("UpdateBranch: unique constraint violated", zap.Error(err))
			return nil, apperrors.NewConflictError(msgBranchExists, err)
		}
		return nil, asHttpError(err, map[string]interface{}{"operation": "UpdateBranch", "userID": userID})
	}

	logger.Info("UpdateBranch: local branch updated", zap.Bool("passwordChanged", payload.Password.Valid))
	result := localBranchEntityToDTO(updated)
	return &result, nil
}

// GetBranches возвращает пустой срез, если филиалов нет.
func (s *LocalBranchService) GetBranches(ctx context.Context) ([]dto.LocalBranchDTO, error) {
	branches, err := s.branchRepo.GetLocalBranches(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err, map[string]interface{}{"operation": "GetBranches"})
	}

	result := make([]dto.LocalBranchDTO, 0, len(branches))
	for i := range branches {
		result = append(result, localBranchEntityToDTO(&branches[i]))
	}
	return result, nil
}

func (s *LocalBranchService) GetBranch(ctx context.Context, userID string) (*dto.LocalBranchDTO, error) {
	branch, err := s.branchRepo.FindByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(msgBranchNotFound)
		}
		return nil, apperrors.NewInternalError(err, map[string]interface{}{"operation": "GetBranch", "userID": userID})
	}

	result := localBranchEntityToDTO(branch)
	return &result, nil
}

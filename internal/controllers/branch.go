package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"local-branch/internal/dto"
	"local-branch/internal/services"
	apperrors "local-branch/pkg/errors"
	"local-branch/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	msgBranchCreated    = "Local Branch added successfully."
	msgLoginSuccess     = "Login successful"
	msgBranchUpdated    = "Local branch updated successfully."
	msgBranchesFetched  = "Local branches fetched successfully."
	msgBranchFetched    = "Local branch details fetched successfully."
	msgNoBranchesFound  = "No local branches found."
	msgBranchNotFound   = "Local branch not found."
	msgAllFieldsMissing = "All fields are required."
	msgLoginFieldsEmpty = "Please provide both user ID and password."
)

type LocalBranchController struct {
	branchService services.LocalBranchServiceInterface
	authService   services.AuthServiceInterface
	logger        *zap.Logger
}

func NewLocalBranchController(
	branchService services.LocalBranchServiceInterface,
	authService services.AuthServiceInterface,
	logger *zap.Logger,
) *LocalBranchController {
	return &LocalBranchController{
		branchService: branchService,
		authService:   authService,
		logger:        logger,
	}
}

func (c *LocalBranchController) CreateBranch(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateLocalBranchDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		if utils.HasRequiredViolation(err) {
			return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(msgAllFieldsMissing), c.logger)
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	branch, err := c.branchService.CreateBranch(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return ctx.JSON(http.StatusCreated, dto.BranchResponse{Message: msgBranchCreated, Branch: *branch})
}

func (c *LocalBranchController) Login(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.LocalBranchLoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(msgLoginFieldsEmpty), c.logger)
	}

	result, err := c.branchService.Login(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return ctx.JSON(http.StatusOK, dto.LoginResponse{
		Message: msgLoginSuccess,
		Token:   result.Token,
		Branch:  result.Branch,
	})
}

func (c *LocalBranchController) UpdateBranch(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	userID := ctx.Param("userId")

	var payload dto.UpdateLocalBranchDTO
	if err := utils.BindStrictJSON(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	branch, err := c.branchService.UpdateBranch(reqCtx, userID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return ctx.JSON(http.StatusOK, dto.BranchResponse{Message: msgBranchUpdated, Branch: *branch})
}

func (c *LocalBranchController) GetBranches(ctx echo.Context) error {
	branches, err := c.branchService.GetBranches(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if len(branches) == 0 {
		return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgNoBranchesFound})
	}

	return ctx.JSON(http.StatusOK, dto.BranchListResponse{Message: msgBranchesFetched, Branches: branches})
}

func (c *LocalBranchController) GetBranch(ctx echo.Context) error {
	branch, err := c.branchService.GetBranch(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		var httpErr *apperrors.HttpError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusNotFound {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgBranchNotFound})
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return ctx.JSON(http.StatusOK, dto.BranchResponse{Message: msgBranchFetched, Branch: *branch})
}

// CheckSession всегда отвечает 200: true или false.
func (c *LocalBranchController) CheckSession(ctx echo.Context) error {
	valid := c.authService.CheckSession(ctx.Request().Context(), ctx.Request().Header.Get(echo.HeaderAuthorization))
	return ctx.JSON(http.StatusOK, valid)
}

// Me возвращает филиал владельца токена. Требует AuthMiddleware.
func (c *LocalBranchController) Me(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	claims, err := utils.GetClaimsFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusUnauthorized, "Unauthorized.", err, nil), c.logger)
	}

	branch, err := c.branchService.GetBranch(reqCtx, claims.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return ctx.JSON(http.StatusOK, dto.BranchResponse{Message: msgBranchFetched, Branch: *branch})
}

var exportHeaders = []string{"User ID", "Branch name", "Branch code", "Email", "Phone"}

func branchToRow(branch dto.LocalBranchDTO) []interface{} {
	phone := ""
	if branch.Phone != nil {
		phone = *branch.Phone
	}
	return []interface{}{branch.UserID, branch.BranchName, branch.BranchCode, branch.Email, phone}
}

func (c *LocalBranchController) ExportBranches(ctx echo.Context) error {
	branches, err := c.branchService.GetBranches(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Local branches"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", style); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	for i, branch := range branches {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		row := branchToRow(branch)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}
	if err := f.SetColWidth(sheet, "A", "D", 25); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetColWidth(sheet, "E", "E", 18); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	c.logger.Info("ExportBranches: export generated", zap.Int("rows", len(branches)))

	fileName := fmt.Sprintf("local_branches_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

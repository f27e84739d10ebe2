package routes

import (
	"local-branch/internal/controllers"
	"local-branch/pkg/middleware"

	"github.com/labstack/echo/v4"
)

// Статические пути регистрируются раньше /:userId.
func runLocalBranchRouter(api *echo.Group, branchCtrl *controllers.LocalBranchController, authMW *middleware.AuthMiddleware) {
	branchGroup := api.Group("/local-branches")
	{
		branchGroup.POST("", branchCtrl.CreateBranch)
		branchGroup.POST("/login", branchCtrl.Login)
		branchGroup.GET("", branchCtrl.GetBranches)
		branchGroup.GET("/login-status", branchCtrl.CheckSession)
		branchGroup.GET("/me", branchCtrl.Me, authMW.Auth)
		branchGroup.GET("/export", branchCtrl.ExportBranches, authMW.Auth)
		branchGroup.GET("/:userId", branchCtrl.GetBranch)
		branchGroup.PUT("/:userId", branchCtrl.UpdateBranch)
	}
}

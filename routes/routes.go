package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"instrument-inventory/app"
	"instrument-inventory/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	instrumentCtl := controllers.NewInstrumentController(s)
	borrowCtl := controllers.NewBorrowController(s)
	maintCtl := controllers.NewMaintenanceController(s)
	condCtl := controllers.NewConditionController(s)
	activityCtl := controllers.NewActivityController(s)
	userCtl := controllers.NewUserController(s)
	dashCtl := controllers.NewDashboardController(s, a.RDB)

	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth (login is public)
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authCtl.Login)
		auth.POST("/logout", authCtl.Logout)
		auth.GET("/session", authMW, authCtl.Session)
	}

	// ------------------------------
	// Instruments (reads for everyone signed in, mutations admin-only)
	// ------------------------------
	instruments := r.Group("/api/instruments", authMW, seenMW)
	{
		instruments.GET("", instrumentCtl.List)
		instruments.GET("/:id", instrumentCtl.Get)
	}
	instrumentsAdmin := r.Group("/api/instruments", authMW, adminMW)
	{
		instrumentsAdmin.POST("", instrumentCtl.Create)
		instrumentsAdmin.PUT("/:id", instrumentCtl.Update)
		instrumentsAdmin.DELETE("/:id", instrumentCtl.Delete)
	}

	// ------------------------------
	// Borrow requests
	// ------------------------------
	borrow := r.Group("/api/borrow-requests", authMW, seenMW)
	{
		borrow.GET("", borrowCtl.List)
		borrow.POST("", borrowCtl.Submit)
		borrow.POST("/:id/return", borrowCtl.Return)
	}
	borrowAdmin := r.Group("/api/borrow-requests", authMW, adminMW)
	{
		borrowAdmin.POST("/:id/approve", borrowCtl.Approve)
		borrowAdmin.POST("/:id/deny", borrowCtl.Deny)
		borrowAdmin.POST("/bulk-approve", borrowCtl.BulkApprove)
		borrowAdmin.POST("/sweep-overdue", borrowCtl.SweepOverdue)
	}

	// ------------------------------
	// Maintenance & calibration (mutations admin-only)
	// ------------------------------
	maint := r.Group("/api/maintenance-logs", authMW, seenMW)
	{
		maint.GET("", maintCtl.List)
	}
	maintAdmin := r.Group("/api/maintenance-logs", authMW, adminMW)
	{
		maintAdmin.POST("", maintCtl.Schedule)
		maintAdmin.PUT("/:id", maintCtl.Update)
	}
	calib := r.Group("/api/calibration-logs", authMW, seenMW)
	{
		calib.GET("", maintCtl.ListCalibrations)
	}
	calibAdmin := r.Group("/api/calibration-logs", authMW, adminMW)
	{
		calibAdmin.POST("", maintCtl.ScheduleCalibration)
		calibAdmin.PUT("/:id", maintCtl.UpdateCalibration)
	}

	// ------------------------------
	// Condition reports (any signed-in user may report)
	// ------------------------------
	conditions := r.Group("/api/instrument-conditions", authMW, seenMW)
	{
		conditions.GET("", condCtl.List)
		conditions.POST("", condCtl.Report)
	}

	// ------------------------------
	// Activity log
	// ------------------------------
	activity := r.Group("/api/activity-logs", authMW, seenMW)
	{
		activity.POST("", activityCtl.Record)
	}
	activityAdmin := r.Group("/api/activity-logs", authMW, adminMW)
	{
		activityAdmin.GET("", activityCtl.List)
	}

	// ------------------------------
	// User management (admin-only)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.List)
		users.GET("/:id", userCtl.Get)
		users.POST("", userCtl.Create)
		users.PUT("/:id/role", userCtl.UpdateRole)
		users.DELETE("/:id", userCtl.Delete)
	}

	// ------------------------------
	// Dashboard
	// ------------------------------
	dashboard := r.Group("/api/dashboard", authMW, seenMW)
	{
		dashboard.GET("/stats", dashCtl.Stats)
	}
}

package routes

import (
	"PlanBoardGo/controllers"
	"PlanBoardGo/middleware"
	"PlanBoardGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, engine *services.ScheduleEngine, perms *services.PermissionService,
	ai *services.AIService, reminder *services.ReminderService, inviteValidDays int) {
	authController := controllers.AuthController{}
	userController := controllers.UserController{}
	taskController := controllers.NewTaskController(engine, perms)
	boardController := controllers.NewBoardController(perms)
	memberController := controllers.NewMemberController(perms)
	invitationController := controllers.NewInvitationController(perms, inviteValidDays)
	shareLinkController := controllers.NewShareLinkController(perms)
	assignmentController := controllers.NewAssignmentController(perms)
	aiController := controllers.NewAIController(ai)
	reminderController := controllers.NewReminderController(reminder)

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/test-user", authController.CreateTestUser)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		private.GET("/user", userController.GetUser)
		private.PUT("/user/reminder", userController.UpdateReminderPreference)

		// 任务
		private.POST("/tasks", taskController.CreateTask)
		private.GET("/tasks", taskController.ListTasks)
		private.GET("/tasks/kanban", taskController.GetKanban)
		private.POST("/tasks/batch-delete", taskController.BatchDeleteTasks)
		private.GET("/tasks/:id", taskController.GetTask)
		private.PUT("/tasks/:id", taskController.UpdateTask)
		private.POST("/tasks/:id/toggle", taskController.ToggleComplete)
		private.DELETE("/tasks/:id", taskController.DeleteTask)

		// 任务指派
		private.POST("/tasks/:id/assignments", assignmentController.AssignTask)
		private.DELETE("/tasks/:id/assignments/:userId", assignmentController.UnassignTask)
		private.GET("/tasks/:id/assignments", assignmentController.ListAssignees)

		// 看板
		private.POST("/boards", boardController.CreateBoard)
		private.GET("/boards", boardController.ListBoards)
		private.GET("/boards/:id", boardController.GetBoard)
		private.PUT("/boards/:id", boardController.UpdateBoard)
		private.DELETE("/boards/:id", boardController.DeleteBoard)

		// 看板成员
		private.GET("/boards/:id/members", memberController.ListMembers)
		private.PUT("/boards/:id/members/:userId", memberController.UpdateMemberRole)
		private.DELETE("/boards/:id/members/:userId", memberController.RemoveMember)

		// 邀请
		private.POST("/boards/:id/invitations", invitationController.CreateInvitation)
		private.GET("/boards/:id/invitations", invitationController.ListBoardInvitations)
		private.DELETE("/boards/:id/invitations/:inviteId", invitationController.CancelInvitation)
		private.GET("/invitations", invitationController.ListMyInvitations)
		private.POST("/invitations/:inviteId/accept", invitationController.AcceptInvitation)
		private.POST("/invitations/:inviteId/decline", invitationController.DeclineInvitation)

		// 分享链接
		private.POST("/boards/:id/share-links", shareLinkController.CreateShareLink)
		private.GET("/boards/:id/share-links", shareLinkController.ListShareLinks)
		private.DELETE("/boards/:id/share-links/:token", shareLinkController.DeactivateShareLink)
		private.POST("/share-links/:token/join", shareLinkController.JoinByShareLink)

		// AI 辅助
		private.POST("/ai/parse-task", aiController.ParseTask)
		private.POST("/ai/suggest-schedule", aiController.SuggestSchedule)
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	{
		internal.POST("/reminders/run", reminderController.RunReminders)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}

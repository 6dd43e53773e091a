package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/awashimakentaro/diet/controllers"
	"github.com/awashimakentaro/diet/middlewares"
	"github.com/awashimakentaro/diet/repository"
)

type Controllers struct {
	Auth          *controllers.AuthController
	Analyze       *controllers.AnalyzeController
	Drafts        *controllers.DraftController
	Meals         *controllers.MealController
	Summary       *controllers.SummaryController
	Goals         *controllers.GoalController
	Library       *controllers.LibraryController
	Notifications *controllers.NotificationController
	Realtime      *controllers.RealtimeController
}

func SetupRouter(ctrl Controllers, users repository.UserRepository) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/verify", ctrl.Auth.VerifyMFA)
	}

	// Everything else requires a signed-in user.
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware(users))
	{
		api.POST("/auth/signout", ctrl.Auth.SignOut)

		api.POST("/analyze", ctrl.Analyze.Analyze)

		drafts := api.Group("/drafts")
		{
			drafts.GET("", ctrl.Drafts.List)
			drafts.POST("/manual", ctrl.Drafts.CreateManual)
			drafts.POST("/from-library", ctrl.Drafts.CreateFromLibrary)
			drafts.POST("/inbox/consume", ctrl.Drafts.ConsumeInbox)
			drafts.GET("/:id", ctrl.Drafts.Get)
			drafts.PUT("/:id/menu-name", ctrl.Drafts.UpdateMenuName)
			drafts.PUT("/:id/items", ctrl.Drafts.UpdateItem)
			drafts.POST("/:id/items/append", ctrl.Drafts.AppendByAnalysis)
			drafts.POST("/:id/items/remove", ctrl.Drafts.RemoveItem)
			drafts.DELETE("/:id", ctrl.Drafts.Discard)
		}

		meals := api.Group("/meals")
		{
			meals.POST("", ctrl.Meals.Save)
			meals.GET("", ctrl.Meals.ListByDate)
			meals.POST("/sync", ctrl.Meals.Sync)
			meals.PUT("/:id", ctrl.Meals.Update)
			meals.DELETE("/:id", ctrl.Meals.Delete)
			meals.DELETE("", ctrl.Meals.DeleteByDate)
			meals.POST("/:id/duplicate", ctrl.Meals.Duplicate)
			meals.POST("/:id/save-as-template", ctrl.Library.CreateFromMeal)
		}

		api.GET("/summary", ctrl.Summary.GetDaily)

		goals := api.Group("/goals")
		{
			goals.GET("", ctrl.Goals.Get)
			goals.PUT("", ctrl.Goals.Upsert)
			goals.POST("/calculate", ctrl.Goals.Calculate)
		}

		library := api.Group("/library")
		{
			library.GET("", ctrl.Library.List)
			library.POST("", ctrl.Library.Create)
			library.DELETE("/:id", ctrl.Library.Delete)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", ctrl.Notifications.Get)
			notifications.PUT("", ctrl.Notifications.Update)
			notifications.POST("/send", ctrl.Notifications.SendReminder)
		}

		api.GET("/ws/summary", ctrl.Realtime.SummaryWS)
	}

	return r
}

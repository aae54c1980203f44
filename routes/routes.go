package routes

import (
	"github.com/RamaAlqdri/sehatin/controllers"
	"github.com/RamaAlqdri/sehatin/middlewares"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	JWTSecret       string
	ForgotJWTSecret string

	Auth     *controllers.AuthController
	User     *controllers.UserController
	Food     *controllers.FoodController
	History  *controllers.HistoryController
	Schedule *controllers.ScheduleController
	Message  *controllers.MessageController
	Device   *controllers.DeviceController
	Realtime *controllers.RealtimeController
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())

	api := r.Group("/api")

	authed := middlewares.AuthMiddleware(h.JWTSecret)
	anyRole := middlewares.RequireRole(utils.RoleUser, utils.RoleAdmin)
	adminOnly := middlewares.RequireRole(utils.RoleAdmin)

	// Public auth routes
	user := api.Group("/user")
	{
		user.POST("/register", h.Auth.Register)
		user.POST("/auth/login", h.Auth.Login)
		user.POST("/auth/otp/generate", h.Auth.GenerateOtp)
		user.POST("/auth/otp/verify", h.Auth.VerifyOtp)
		user.POST("/auth/otp/password/verify", h.Auth.VerifyForgotOtp)
		user.GET("/auth/google", h.Auth.GoogleRedirect)
		user.GET("/auth/google/callback", h.Auth.GoogleCallback)
		user.POST("/password/reset", middlewares.ForgotPasswordMiddleware(h.ForgotJWTSecret), h.User.ResetPassword)
	}
	api.POST("/admin/auth/login", h.Auth.AdminLogin)

	profile := api.Group("/user", authed)
	{
		profile.PUT("/name", anyRole, h.User.UpdateName())
		profile.PUT("/height", anyRole, h.User.UpdateHeight())
		profile.PUT("/weight", anyRole, h.User.UpdateWeight())
		profile.PUT("/bmi", anyRole, h.User.UpdateBMI())
		profile.PUT("/bmr", anyRole, h.User.UpdateBMR())
		profile.PUT("/gender", anyRole, h.User.UpdateGender())
		profile.PUT("/activity", anyRole, h.User.UpdateActivity())
		profile.PUT("/goal", anyRole, h.User.UpdateGoal())
		profile.PUT("/birthday", anyRole, h.User.UpdateBirthday())
		profile.PUT("/target", anyRole, h.User.UpdateWeightTarget())
		profile.GET("/detail/:user_id", anyRole, h.User.Detail)
		profile.GET("/weight/history", anyRole, h.User.WeightHistory)
		profile.GET("", adminOnly, h.User.List)
	}

	food := api.Group("/food", authed)
	{
		food.POST("", adminOnly, h.Food.Create)
		food.PUT("/:foodId", adminOnly, h.Food.Update)
		food.GET("", anyRole, h.Food.List)
		food.GET("/detail", anyRole, h.Food.Detail)
		food.GET("/filter", anyRole, h.Food.Filter)
		food.GET("/many", anyRole, h.Food.Many)
		food.GET("/recommendation", anyRole, h.Food.Recommendation)
		food.POST("/recognize", anyRole, h.Food.Recognize)
		food.POST("/image", adminOnly, h.Food.UploadImage)

		food.POST("/history", anyRole, h.History.Add)
		food.DELETE("/history", anyRole, h.History.Delete)
		food.GET("/history", anyRole, h.History.Get)
		food.GET("/history/summary", anyRole, h.History.Summary)
		food.GET("/historys", anyRole, h.History.ListByMealType)
		food.GET("/historys/range", anyRole, h.History.ListRange)
	}

	schedule := api.Group("/schedule", authed)
	{
		schedule.POST("", adminOnly, h.Schedule.Create)
		schedule.GET("/detail/:scheduleId", anyRole, h.Schedule.Detail)
		schedule.GET("/user", anyRole, h.Schedule.ListByUser)
		schedule.PUT("", anyRole, h.Schedule.Update)
		schedule.PUT("/complete", anyRole, h.Schedule.Complete)
		schedule.PUT("/food", anyRole, h.Schedule.UpdateFood)
		schedule.GET("/closest", anyRole, h.Schedule.Closest)
		schedule.GET("/day", anyRole, h.Schedule.Day)
		schedule.GET("/month", anyRole, h.Schedule.Month)
		schedule.POST("/dummy", anyRole, h.Schedule.Dummy)

		schedule.POST("/water", anyRole, h.Schedule.CreateWater)
		schedule.DELETE("/water", anyRole, h.Schedule.DeleteLatestWater)
		schedule.DELETE("/water/id", anyRole, h.Schedule.DeleteWater)
		schedule.GET("/water/history", anyRole, h.Schedule.WaterHistory)
		schedule.GET("/water", anyRole, h.Schedule.DailyWater)
		schedule.GET("/calories/history", anyRole, h.Schedule.CaloriesHistory)
		schedule.GET("/calories", anyRole, h.Schedule.Calories)
		schedule.GET("/progress", anyRole, h.Schedule.Progress)
		schedule.GET("/completion", anyRole, h.Schedule.CompletionScore)
	}

	message := api.Group("/message", authed, anyRole)
	{
		message.POST("", h.Message.Create)
		message.GET("/user/:userId", h.Message.ListByUser)
		message.POST("/chat", h.Message.Chat)
	}
	api.POST("/bot/generate", authed, anyRole, h.Message.Generate)

	device := api.Group("/device", authed)
	{
		device.POST("", anyRole, h.Device.Register)
		device.PUT("/notifications", anyRole, h.Device.ToggleNotifications)
		device.POST("/push/test", adminOnly, h.Device.PushTest)
	}
	api.GET("/realtime/ws", middlewares.WSAuthMiddleware(h.JWTSecret), anyRole, h.Realtime.Stream)

	return r
}

package routes

import (
	"os"

	otpController "otp-gateway/controllers/otp"
	userController "otp-gateway/controllers/user"
	"otp-gateway/httpServices/sms"
	"otp-gateway/httpServices/usermgmt"
	"otp-gateway/logger"
	"otp-gateway/middleware"
	"otp-gateway/repository"
	otpService "otp-gateway/services/otp"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupRoutes(app *fiber.App, db *mongo.Database) {
	domain := os.Getenv("DOMAIN")
	token := os.Getenv("TOKEN")

	otpRepo := repository.NewMongoOTPRepository(db)
	service := otpService.NewOTPService(otpRepo)
	sender := sms.NewSMSService()
	upstream := usermgmt.NewClient(domain, token)
	asyncLogger := logger.NewAsyncLogger(db)

	uc := userController.NewUserController(service, sender, upstream, domain)
	oc := otpController.NewOTPController(service, sender)

	// Start the async request logger processing goroutine
	go asyncLogger.ProcessLog()
	app.Use(middleware.RequestLogger(asyncLogger))

	Register(app, uc, oc)
}

// Register mounts the endpoints on the app. It is split from SetupRoutes
// so tests can wire controllers backed by in-memory collaborators.
func Register(app *fiber.App, uc *userController.Controller, oc *otpController.Controller) {
	api := app.Group("/api")

	api.Get("/config", uc.GetConfig)
	api.Get("/search-user", uc.SearchUser)
	api.Post("/verify-otp", oc.VerifyOTP)
	api.Post("/resend-otp", oc.ResendOTP)
	api.Post("/set-password", uc.SetPassword)

	otpGroup := api.Group("/otp")
	otpGroup.Get("/stats", oc.GetStats)
	otpGroup.Get("/debug/:userId", oc.DebugOTP)
	otpGroup.Post("/cleanup", oc.CleanupOTPs)
}

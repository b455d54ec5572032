package routes

import (
	adminapi "connect-ed/internal/api/admin"
	authapi "connect-ed/internal/api/auth"
	billingapi "connect-ed/internal/api/billing"
	"connect-ed/internal/api/dodowebhook"
	gateapi "connect-ed/internal/api/gate"
	notifyapi "connect-ed/internal/api/notify"
	schoolsapi "connect-ed/internal/api/schools"
	usersapi "connect-ed/internal/api/users"
	"connect-ed/internal/app/http/middleware"
	"connect-ed/internal/domain/access"
	"connect-ed/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Webhook gets the raw body; never behind auth or the sanitizer.
	r.POST("/api/webhooks/dodo", dodowebhook.DodoWebhook)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ✅ Apply input sanitization to public routes only
	public := r.Group("/api")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/auth/register", authapi.Register)
	public.POST("/auth/login", authapi.Login)
	public.GET("/auth/verify", authapi.VerifyEmail)
	public.POST("/auth/resend-verification", authapi.ResendVerification)
	public.POST("/auth/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/auth/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	public.GET("/plans", billingapi.ListPlans)

	// Gate decisions must be answerable for guests too.
	r.GET("/api/access/gate", middleware.OptionalAuthMiddleware(), gateapi.GetGateDecision)

	// Authenticated: reachable before the signup fee is paid, because the
	// payment and onboarding flows live here.
	auth := r.Group("/api")
	auth.Use(middleware.AuthMiddleware())

	auth.GET("/me", usersapi.GetCurrentUser)
	auth.POST("/auth/change-password", authapi.ChangePassword)

	auth.GET("/payments", billingapi.GetPaymentHistory)
	auth.POST("/payments/create-checkout", billingapi.CreateCheckoutSession)
	auth.GET("/payments/verify/:reference", billingapi.VerifyPayment)

	auth.GET("/schools/me", schoolsapi.GetMySchool)

	// Onboarding requires the signup fee first; the gate orders the two.
	onboarding := auth.Group("/")
	onboarding.Use(middleware.RequireGate(access.Requirements{Auth: true, Payment: true}))
	onboarding.POST("/schools/onboarding/complete", middleware.RequireRole(users.RoleAdmin), schoolsapi.CompleteOnboarding)

	// Main app surface: fully onboarded, paid, not locked out.
	dashboard := auth.Group("/")
	dashboard.Use(middleware.RequireGate(access.DashboardPreset()))

	dashboard.POST("/notifications/send", notifyapi.SendNotification)

	// School-admin routes
	admin := dashboard.Group("/admin")
	admin.Use(middleware.RequireRole(users.RoleAdmin))
	admin.GET("/stats", adminapi.GetSchoolStats)
	admin.GET("/users", adminapi.ListSchoolUsers)
	admin.GET("/payments", adminapi.ListSchoolPayments)
	admin.PUT("/school", schoolsapi.UpdateSettings)
}

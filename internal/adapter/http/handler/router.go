package handler

import (
	"github.com/kindfi-org/kindfi-sub007/internal/adapter/http/middleware"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	EscrowSvc      ports.EscrowService
	ReviewSvc      ports.ReviewService
	DisputeSvc     ports.DisputeService
	PasskeySvc     ports.PasskeyService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	v1 := r.Group("/api/v1")

	// --- Escrow lifecycle ---
	escrowHandler := NewEscrowHandler(deps.EscrowSvc)
	escrows := v1.Group("/escrows", jwtAuth)
	{
		escrows.POST("", escrowHandler.Initialize)
		escrows.GET("/:id", escrowHandler.Get)
		escrows.POST("/:address/fund", escrowHandler.MarkFunded)
		escrows.POST("/:address/sync", escrowHandler.Sync)
	}

	// --- Transaction pipeline ---
	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.POST("/simulate", escrowHandler.Simulate)
		transactions.POST("", escrowHandler.Submit)
	}

	// --- Milestone reviews ---
	milestoneHandler := NewMilestoneHandler(deps.ReviewSvc)
	milestones := v1.Group("/milestones", jwtAuth)
	{
		milestones.POST("/:id/review", middleware.RequireRole(middleware.RoleReviewer), milestoneHandler.Review)
		milestones.POST("/:id/reupload", milestoneHandler.RequestReupload)
	}

	// --- Dispute workflow ---
	disputeHandler := NewDisputeHandler(deps.DisputeSvc)
	disputes := v1.Group("/disputes", jwtAuth)
	{
		disputes.POST("", disputeHandler.Open)
		disputes.GET("/:id", disputeHandler.Get)
		disputes.POST("/:id/evidence", disputeHandler.AddEvidence)
		disputes.POST("/:id/mediator", middleware.RequireRole(), disputeHandler.AssignMediator)
		disputes.POST("/:id/resolve", middleware.RequireRole(middleware.RoleMediator), disputeHandler.Resolve)
		disputes.DELETE("/:id", middleware.RequireRole(), disputeHandler.Delete)
	}

	// --- Passkey signing bridge (public: the assertion itself authenticates) ---
	passkeyHandler := NewPasskeyHandler(deps.PasskeySvc)
	passkeys := v1.Group("/passkeys")
	{
		passkeys.POST("/challenge", passkeyHandler.IssueChallenge)
		passkeys.POST("/transaction-challenge", passkeyHandler.IssueTransactionChallenge)
		passkeys.POST("/verify", passkeyHandler.VerifyAssertion)
	}

	return r
}

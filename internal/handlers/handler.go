package handlers

import (
	"strings"

	_ "voxcredit/docs"
	"voxcredit/internal/logger"
	"voxcredit/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	audioDir string
	baseURL  string
}

// Option tweaks a Handler at construction time.
type Option func(*Handler)

// WithAudioDir serves generated audio files under /audio from dir.
func WithAudioDir(dir string) Option {
	return func(h *Handler) { h.audioDir = dir }
}

// WithBaseURL sets the public URL used to build links sent by email.
func WithBaseURL(url string) Option {
	return func(h *Handler) { h.baseURL = strings.TrimRight(url, "/") }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	registerValidators()
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	if h.audioDir != "" {
		router.Static("/audio", h.audioDir)
	}

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Gateway callback, authenticated by its HMAC signature
	router.POST("/razorpay-webhook", h.razorpayWebhook)

	// Balance stream (HTTP upgrade) on the same port
	router.GET("/ws/credits", h.wsCredits)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/forgot-password", h.forgotPassword)
		auth.POST("/reset-password", h.resetPassword)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.GET("/plans", h.listPlans)

	protected := api.Group("", h.userIdMiddleware)
	{
		protected.GET("/me", h.getAccount)
		h.registerBillingRoutes(protected)
		h.registerAudioRoutes(protected)
		h.registerAdminRoutes(protected)
	}
}

func (h *Handler) registerBillingRoutes(api *gin.RouterGroup) {
	api.POST("/create-order/:plan", h.createOrder)
	// Body example: {"razorpay_order_id":"order_x","razorpay_payment_id":"pay_x","razorpay_signature":"...","plan_id":"starter"}
	api.POST("/verify-payment", h.verifyPayment)
}

func (h *Handler) registerAudioRoutes(api *gin.RouterGroup) {
	api.POST("/generate-audio", h.generateAudio)
	api.GET("/history", h.getHistory)
}

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", h.adminMiddleware)
	{
		admin.GET("/payments", h.getPayments)
	}
}

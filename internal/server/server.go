package server

import (
	"context"
	"net/http"
	"time"

	"gymspot/internal/attendance"
	"gymspot/internal/auth"
	"gymspot/internal/booking"
	"gymspot/internal/config"
	"gymspot/internal/email"
	"gymspot/internal/equipment"
	"gymspot/internal/gym"
	"gymspot/internal/membership"
	"gymspot/internal/payment"
	"gymspot/internal/review"
	"gymspot/internal/slot"
	"gymspot/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	gymRepo := gym.NewRepository(db)
	gymService := gym.NewService(gymRepo)
	equipmentRepo := equipment.NewRepository(db)
	slotRepo := slot.NewRepository(db)
	slotService := slot.NewService(slotRepo, gymService, equipmentRepo)
	membershipRepo := membership.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	userRepo := user.NewRepository(db)
	bookingRepo := booking.NewRepository(db, slotRepo, cfg.SlotLockTimeout)
	bookingService := booking.NewService(bookingRepo, slotRepo, gymService, membershipRepo, paymentRepo, userRepo, emailService)
	attendanceRepo := attendance.NewRepository(db, bookingRepo)
	attendanceService := attendance.NewService(attendanceRepo, bookingRepo, gymService)
	reviewRepo := review.NewRepository(db)

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	gymHandler := gym.NewHandler(gymService)
	equipmentHandler := equipment.NewHandler(equipmentRepo, gymService)
	slotHandler := slot.NewHandler(slotService)
	membershipHandler := membership.NewHandler(membershipRepo, gymService)
	paymentHandler := payment.NewHandler(paymentRepo, gymService)
	bookingHandler := booking.NewHandler(bookingService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	reviewHandler := review.NewHandler(reviewRepo, gymService)

	public := router.Group("/")
	{
		public.POST("/auth/register", userHandler.Register)
		public.POST("/auth/login", userHandler.Login)
		public.GET("/gyms", gymHandler.ListGyms)
		public.GET("/gyms/:gymID", gymHandler.GetGym)
		public.GET("/gyms/:gymID/equipment", equipmentHandler.ListEquipment)
		public.GET("/gyms/:gymID/passes", membershipHandler.ListPasses)
		public.GET("/gyms/:gymID/reviews", reviewHandler.ListGymReviews)
		public.GET("/slots/available", slotHandler.GetAvailableSlots)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/bookings/:bookingID", bookingHandler.GetBooking)
	}

	customer := router.Group("/")
	customer.Use(authMiddleware, auth.RequireUserType(auth.TypeCustomer))
	{
		customer.POST("/bookings", bookingHandler.CreateBooking)
		customer.GET("/bookings", bookingHandler.GetMyBookings)
		customer.PUT("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)

		customer.POST("/attendance/check-in", attendanceHandler.CheckIn)
		customer.PUT("/attendance/:attendanceID/check-out", attendanceHandler.CheckOut)
		customer.GET("/attendance", attendanceHandler.GetMyAttendance)

		customer.POST("/memberships", membershipHandler.Purchase)
		customer.GET("/memberships", membershipHandler.ListMyMemberships)
		customer.PUT("/memberships/:membershipID/cancel", membershipHandler.CancelMembership)

		customer.GET("/payments", paymentHandler.ListMyPayments)

		customer.POST("/reviews", reviewHandler.CreateReview)
		customer.GET("/reviews", reviewHandler.ListMyReviews)
		customer.DELETE("/reviews/:reviewID", reviewHandler.DeleteReview)
	}

	vendor := router.Group("/vendor")
	vendor.Use(authMiddleware, auth.RequireUserType(auth.TypeVendor))
	{
		vendor.POST("/gyms", gymHandler.CreateGym)
		vendor.GET("/gyms", gymHandler.ListMyGyms)
		vendor.POST("/gyms/:gymID/equipment", equipmentHandler.CreateEquipment)
		vendor.DELETE("/gyms/:gymID/equipment/:equipmentID", equipmentHandler.DeleteEquipment)
		vendor.POST("/gyms/:gymID/passes", membershipHandler.CreatePass)

		vendor.POST("/slots", slotHandler.CreateSlot)
		vendor.POST("/slots/bulk", slotHandler.CreateBulk)
		vendor.GET("/gyms/:gymID/slots", slotHandler.GetGymSlots)
		vendor.PUT("/slots/:slotID/availability", slotHandler.SetAvailability)
		vendor.DELETE("/slots/:slotID", slotHandler.DeleteSlot)

		vendor.GET("/gyms/:gymID/bookings", bookingHandler.GetGymBookings)
		vendor.GET("/gyms/:gymID/dashboard", bookingHandler.GetDashboard)
		vendor.GET("/gyms/:gymID/attendance", attendanceHandler.GetGymAttendance)
		vendor.GET("/gyms/:gymID/payments", paymentHandler.ListGymPayments)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireUserType(auth.TypeAdmin))
	{
		admin.PUT("/gyms/:gymID/status", gymHandler.UpdateGymStatus)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/handler"
	"github.com/sekolahku/presensi-backend/internal/middleware"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/response"
	"github.com/sekolahku/presensi-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Attendance *handler.AttendanceHandler
	Class      *handler.ClassHandler
	Student    *handler.StudentHandler
	Teacher    *handler.TeacherHandler
	Parent     *handler.ParentHandler
	User       *handler.UserHandler
	Dashboard  *handler.DashboardHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login (30 attempts per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Authenticated API (JWT + Single Device) ────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		staff := middleware.RequireRoles(model.RoleAdmin, model.RoleTeacher)
		anyone := middleware.RequireRoles(model.RoleAdmin, model.RoleTeacher, model.RoleParent)
		adminOnly := middleware.RequireRoles(model.RoleAdmin)

		// Attendance reports. Parents may read the per-student views.
		api.GET("/attendance/classes/:id/daily", staff, handlers.Attendance.DailyReport)
		api.GET("/attendance/classes/:id/weekly", staff, handlers.Attendance.WeeklyReport)
		api.GET("/attendance/classes/:id/students/:student_id/weekly", anyone, handlers.Attendance.StudentWeeklyReport)
		api.GET("/attendance/classes/:id/students/:student_id/monthly", anyone, handlers.Attendance.StudentMonthlyReport)

		// Attendance writes.
		api.POST("/attendance/records", adminOnly, handlers.Attendance.Upsert)
		api.POST("/attendance/classes/:id/present", staff, handlers.Attendance.BulkStatus(model.StatusPresent))
		api.POST("/attendance/classes/:id/absent", staff, handlers.Attendance.BulkStatus(model.StatusAbsent))
		api.POST("/attendance/classes/:id/late", staff, handlers.Attendance.BulkStatus(model.StatusLate))
		api.POST("/attendance/classes/:id/holiday", staff, handlers.Attendance.BulkStatus(model.StatusHoliday))

		// Class management.
		api.GET("/classes", staff, handlers.Class.ListClasses)
		api.GET("/classes/:id", staff, handlers.Class.GetClass)
		api.POST("/classes", adminOnly, handlers.Class.CreateClass)
		api.PUT("/classes/:id", adminOnly, handlers.Class.UpdateClass)
		api.DELETE("/classes/:id", adminOnly, handlers.Class.DeleteClass)
		api.POST("/classes/:id/students", adminOnly, handlers.Class.AddMember)
		api.DELETE("/classes/:id/students/:student_id", adminOnly, handlers.Class.RemoveMember)

		// Student management.
		api.GET("/students", staff, handlers.Student.ListStudents)
		api.GET("/students/:id", staff, handlers.Student.GetStudent)
		api.POST("/students", adminOnly, handlers.Student.CreateStudent)
		api.PUT("/students/:id", adminOnly, handlers.Student.UpdateStudent)
		api.DELETE("/students/:id", adminOnly, handlers.Student.DeleteStudent)

		// Teacher profiles.
		api.GET("/teachers", staff, handlers.Teacher.ListTeachers)
		api.GET("/teachers/:id", staff, handlers.Teacher.GetTeacher)
		api.POST("/teachers", adminOnly, handlers.Teacher.CreateTeacher)
		api.PUT("/teachers/:id", adminOnly, handlers.Teacher.UpdateTeacher)
		api.DELETE("/teachers/:id", adminOnly, handlers.Teacher.DeleteTeacher)

		// Parent profiles.
		api.GET("/parents", staff, handlers.Parent.ListParents)
		api.GET("/parents/:id", staff, handlers.Parent.GetParent)
		api.POST("/parents", adminOnly, handlers.Parent.CreateParent)
		api.PUT("/parents/:id", adminOnly, handlers.Parent.UpdateParent)
		api.DELETE("/parents/:id", adminOnly, handlers.Parent.DeleteParent)

		// Account management.
		api.GET("/users", adminOnly, handlers.User.ListUsers)
		api.GET("/users/:id", adminOnly, handlers.User.GetUser)
		api.POST("/users", adminOnly, handlers.User.CreateUser)
		api.PUT("/users/:id", adminOnly, handlers.User.UpdateUser)
		api.DELETE("/users/:id", adminOnly, handlers.User.DeleteUser)
		api.POST("/users/:id/reset-session", adminOnly, handlers.User.ResetUserSession)

		// Dashboard.
		api.GET("/dashboard", staff, handlers.Dashboard.GetDashboard)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/classes/:id/live", handlers.WS.ClassLiveStream)
	}

	return router
}

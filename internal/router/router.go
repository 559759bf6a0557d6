package router

import (
	"time"

	"github.com/lesdavils/MedimexResolv/internal/config"
	"github.com/lesdavils/MedimexResolv/internal/handler"
	"github.com/lesdavils/MedimexResolv/internal/middleware"
	"github.com/lesdavils/MedimexResolv/internal/model"
	"github.com/lesdavils/MedimexResolv/internal/repository"
	"github.com/lesdavils/MedimexResolv/internal/service"
	"github.com/lesdavils/MedimexResolv/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	timeout := cfg.StoreTimeout()

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)
	partRepo := repository.NewPartRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	accessTTL := time.Duration(cfg.JWTExpirationHours) * time.Hour
	refreshTTL := time.Duration(cfg.JWTRefreshHours) * time.Hour
	authSvc := service.NewAuthService(userRepo, rdb, cfg.JWTSecret, accessTTL, refreshTTL, timeout)
	clientSvc := service.NewClientService(clientRepo, timeout)
	machineSvc := service.NewMachineService(machineRepo, clientRepo, timeout)
	ticketSvc := service.NewTicketService(ticketRepo, clientRepo, machineRepo, userRepo, activityRepo, dispatcher, timeout)
	interventionSvc := service.NewInterventionService(interventionRepo, ticketRepo, partRepo, movementRepo, activityRepo, dispatcher, cfg.AlertEmail, cfg.PDFStoragePath, timeout)
	stockSvc := service.NewStockService(partRepo, movementRepo, activityRepo, dispatcher, cfg.AlertEmail, timeout)
	dashboardSvc := service.NewDashboardService(ticketRepo, partRepo, activityRepo, timeout)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	machinesH := handler.NewMachinesHandler(machineSvc)
	ticketsH := handler.NewTicketsHandler(ticketSvc)
	interventionsH := handler.NewInterventionsHandler(interventionSvc)
	partsH := handler.NewPartsHandler(stockSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	supervisory := middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician, model.RoleReferent, model.RoleManufacturer)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.GET("/auth/me", authH.Me)
		v1.GET("/auth/capabilities", authH.Capabilities)

		v1.GET("/dashboard", staff, dashboardH.Overview)

		// Tickets — referents may open tickets for their own sites
		v1.POST("/tickets", middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician, model.RoleReferent), ticketsH.Create)
		v1.GET("/tickets", anyRole, ticketsH.List)
		v1.GET("/tickets/:id", anyRole, ticketsH.Get)
		v1.GET("/tickets/:id/activity", staff, ticketsH.Activity)
		v1.GET("/tickets/:id/intervention", staff, interventionsH.ByTicket)
		v1.POST("/tickets/:id/assign", supervisory, ticketsH.Assign)
		v1.POST("/tickets/:id/start", staff, ticketsH.Start)
		v1.POST("/tickets/:id/cancel", supervisory, ticketsH.Cancel)

		// Interventions
		v1.POST("/interventions", staff, interventionsH.Record)
		v1.GET("/interventions", staff, interventionsH.List)
		v1.GET("/interventions/:id", staff, interventionsH.Get)
		v1.GET("/interventions/:id/report", staff, interventionsH.Report)

		// Clients — reads for staff, writes for supervisors and admins
		v1.GET("/clients", staff, clientsH.List)
		v1.GET("/clients/:id", staff, clientsH.Get)
		clients := v1.Group("/clients", supervisory)
		{
			clients.POST("", clientsH.Create)
			clients.PUT("/:id", clientsH.Update)
		}

		// Machines — manufacturers get read access to their installed base
		v1.GET("/machines", middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician, model.RoleManufacturer), machinesH.List)
		v1.GET("/machines/:id", middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician, model.RoleManufacturer), machinesH.Get)
		machines := v1.Group("/machines", supervisory)
		{
			machines.POST("", machinesH.Create)
			machines.PUT("/:id", machinesH.Update)
		}

		// Parts and stock
		v1.GET("/parts", staff, partsH.List)
		v1.GET("/parts/low-stock", staff, partsH.LowStock)
		v1.GET("/parts/:id", staff, partsH.Get)
		v1.POST("/parts/:id/adjust", staff, partsH.Adjust)
		v1.GET("/stock-movements", staff, partsH.Movements)
		parts := v1.Group("/parts", supervisory)
		{
			parts.POST("", partsH.Create)
			parts.PUT("/:id", partsH.Update)
		}

		// Users — admin only
		users := v1.Group("/users", middleware.RequireRole(model.RoleAdmin))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.GET("/:id", usersH.Get)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.POST("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

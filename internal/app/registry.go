package app

import (
	"database/sql"
	"path/filepath"

	"go-hrms/internal/auth"
	"go-hrms/internal/company"
	"go-hrms/internal/department"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"
	"go-hrms/internal/rbac/infra"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/timeclock"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	balanceRepo := employee.NewBalanceRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	timeclockRepo := timeclock.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	companyService := company.NewService(gormDB, companyRepo, authRepo)
	departmentService := department.NewService(departmentRepo)
	employeeService := employee.NewService(gormDB, employeeRepo, counterRepo, outboxRepo, rdb)
	leaveService := leave.NewService(gormDB, leaveRepo, balanceRepo, employeeRepo, rbacService, outboxRepo)
	timeclockService := timeclock.NewService(timeclockRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	companyHandler := company.NewHandler(companyService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	timeclockHandler := timeclock.NewHandler(timeclockService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		company.RegisterRoutes(api, companyHandler, rbacService)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		timeclock.RegisterRoutes(api, timeclockHandler, rbacService)
	}

	return nil
}

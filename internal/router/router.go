package router

import (
	"time"

	"khmercafe/internal/config"
	"khmercafe/internal/handler"
	"khmercafe/internal/middleware"
	"khmercafe/internal/model"
	"khmercafe/internal/repository"
	"khmercafe/internal/service"
	"khmercafe/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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

	defaultRate, err := decimal.NewFromString(cfg.DefaultExchangeRate)
	if err != nil || !defaultRate.IsPositive() {
		log.Warn().Str("value", cfg.DefaultExchangeRate).Msg("invalid DEFAULT_EXCHANGE_RATE, using 4100")
		defaultRate = decimal.NewFromInt(4100)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	txm := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	rateRepo := repository.NewRateRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	stockTxRepo := repository.NewStockTransactionRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	shiftRepo := repository.NewShiftRepository(db)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	clock := service.SystemClock()
	authSvc := service.NewAuthService(userRepo, cfg)
	rateSvc := service.NewRateService(rateRepo, clock, defaultRate)
	stockSvc := service.NewStockService(ingredientRepo, recipeRepo, stockTxRepo, txm, dispatcher)
	menuSvc := service.NewMenuService(menuRepo, recipeRepo, rdb, log.Logger)
	orderSvc := service.NewOrderService(orderRepo, menuRepo, stockSvc, rateSvc, txm, clock, dispatcher, log.Logger)
	shiftSvc := service.NewShiftService(shiftRepo, orderRepo, txm, clock, log.Logger)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	menuH := handler.NewMenuHandler(menuSvc)
	ingredientsH := handler.NewIngredientsHandler(stockSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	shiftsH := handler.NewShiftsHandler(shiftSvc)
	ratesH := handler.NewRatesHandler(rateSvc)

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
	anyStaff := middleware.RequireRole(model.RoleCashier, model.RoleManager, model.RoleAdmin)
	managerUp := middleware.RequireRole(model.RoleManager, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Orders, the register's main surface
		v1.POST("/orders", anyStaff, ordersH.Create)
		v1.GET("/orders", anyStaff, ordersH.List)
		v1.GET("/orders/:id", anyStaff, ordersH.Get)
		v1.PATCH("/orders/:id/status", anyStaff, ordersH.Transition)

		// Menu: everyone reads, managers write
		v1.GET("/menu", anyStaff, menuH.List)
		v1.GET("/menu/:id", anyStaff, menuH.Get)
		v1.GET("/menu/:id/recipes", anyStaff, menuH.ListRecipes)
		menu := v1.Group("/menu", managerUp)
		{
			menu.POST("", menuH.Create)
			menu.PUT("/:id", menuH.Update)
			menu.DELETE("/:id", menuH.Delete)
		}
		v1.POST("/recipes", managerUp, menuH.CreateRecipe)
		v1.DELETE("/recipes/:recipe_id", managerUp, menuH.DeleteRecipe)

		// Ingredients and the stock ledger
		v1.GET("/ingredients", anyStaff, ingredientsH.List)
		v1.GET("/ingredients/alerts", anyStaff, ingredientsH.Alerts)
		v1.GET("/ingredients/:id", anyStaff, ingredientsH.Get)
		ing := v1.Group("/ingredients", managerUp)
		{
			ing.POST("", ingredientsH.Create)
			ing.PUT("/:id", ingredientsH.Update)
			ing.DELETE("/:id", ingredientsH.Delete)
			ing.PATCH("/:id/stock", ingredientsH.AdjustStock)
		}
		v1.GET("/stock/transactions", managerUp, ingredientsH.ListTransactions)

		// Shifts
		shifts := v1.Group("/shifts", anyStaff)
		{
			shifts.POST("/start", shiftsH.Start)
			shifts.POST("/close", shiftsH.Close)
			shifts.GET("/current", shiftsH.Current)
		}
		v1.GET("/shifts", managerUp, shiftsH.List)

		// Exchange rate
		v1.GET("/rates/current", anyStaff, ratesH.Current)
		v1.POST("/rates", managerUp, ratesH.Set)
		v1.GET("/rates/history", managerUp, ratesH.History)

		// Staff accounts
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.PATCH("/:id/reactivate", authH.ReactivateUser)
		}
	}

	return r
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/config"
	"pontodigital/cmd/internal/credentials"
	"pontodigital/cmd/internal/domain/database"
	"pontodigital/cmd/internal/domain/database/repository"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/http/handler"
	authmw "pontodigital/cmd/internal/http/middleware"
	cognitoclient "pontodigital/cmd/internal/infrastructure/aws/cognito"
	"pontodigital/cmd/internal/infrastructure/aws/storage"
	"pontodigital/cmd/internal/infrastructure/aws/websocket"
	"pontodigital/cmd/internal/infrastructure/genai"
	"pontodigital/cmd/internal/infrastructure/minhareceita"
	"pontodigital/cmd/internal/livesync"
	"pontodigital/cmd/internal/service"
	"pontodigital/cmd/internal/service/jobs"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/uid"
	"pontodigital/cmd/internal/utils/validators"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads env vars depending on environment
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("unable to load configuration: %v", err)
	}

	if !cfg.Production() {
		log.SetLevel(log.DEBUG)
	}

	validate := validator.New()
	validators.Register(validate)
	if err := uid.Init(cfg.MachineID); err != nil {
		log.Fatalf("unable to start id generator: %v", err)
	}

	db, err := database.Open(database.Options{
		Driver:  cfg.DBDriver,
		DSN:     cfg.DBDSN,
		LogSQL:  cfg.LogSQL,
		Migrate: true,
	})
	if err != nil {
		panic(err)
	}

	signer, err := utils.NewTokenSigner(cfg.TokenSecret, cfg.SessionTTL)
	if err != nil {
		panic(err)
	}

	// Optional AWS clients. Each one stays a nil interface when not configured.
	s3Client := newStorage(ctx, cfg)
	gateway := newGateway(ctx, cfg)
	directory := newDirectory(ctx, cfg)
	generator := newGenerator(ctx, cfg)

	// Getting repos
	companyRepo := repository.NewCompanyRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	lookupRepo := repository.NewLookupRepository(db)

	// Live sync
	loader := service.NewSnapshotLoader(companyRepo, employeeRepo, recordRepo, requestRepo)
	hub := livesync.NewHub(loader)
	registry := livesync.NewRegistry(hub)

	wsService := service.NewWebSocketService(connRepo, policy.NewSnapshotPolicy(), gateway)
	hub.AttachPusher(wsService)

	// Getting services
	hasher := credentials.NewBcryptHasher()
	accessPolicy := policy.NewAccessPolicy()
	requestPolicy := policy.NewRequestPolicy()

	authService := service.NewAuthService(companyRepo, employeeRepo, sessionRepo, hasher, signer, directory, registry, wsService, validate)
	lookupService := service.NewLookupService(minhareceita.NewClient(cfg.ReceitaURL), lookupRepo, accessPolicy)
	employeeService := service.NewEmployeeService(employeeRepo, hasher, s3Client, accessPolicy, authService, hub, validate)
	companyService := service.NewCompanyService(companyRepo, lookupService, s3Client, registry, accessPolicy, hub, validate, cfg.Location)
	recordService := service.NewRecordService(recordRepo, employeeRepo, companyRepo, hasher, s3Client, registry, accessPolicy, hub, validate, cfg.Location, cfg.TimelineStrategy)
	requestService := service.NewRequestService(requestRepo, s3Client, requestPolicy, hub, validate)
	assistantService := service.NewAssistantService(generator, registry, accessPolicy, validate, cfg.Location)
	exportService := service.NewExportService(registry, accessPolicy, cfg.Location)

	// Getting handlers
	authRoutes := handler.NewAuthDefault(authService)
	employeeRoutes := handler.NewEmployeeDefault(employeeService)
	companyRoutes := handler.NewCompanyDefault(companyService)
	lookupRoutes := handler.NewLookupRoute(lookupService)
	recordRoutes := handler.NewRecordDefault(recordService, exportService)
	requestRoutes := handler.NewRequestDefault(requestService)
	assistantRoutes := handler.NewAssistantDefault(assistantService)
	wsRoutes := handler.NewWSDefault(wsService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("30M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	auth := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{Sessions: authService})

	// Public
	e.POST("/api/auth/signup", authRoutes.Signup)
	e.POST("/api/auth/login", authRoutes.LoginEmployee)
	e.POST("/api/auth/login/admin", authRoutes.LoginAdmin)
	e.POST("/api/auth/login/totem", authRoutes.LoginTotem)

	api := e.Group("/api", auth)

	// Session
	api.POST("/auth/logout", authRoutes.Logout)
	api.GET("/auth/me", authRoutes.Me)
	api.PUT("/auth/view", authRoutes.ChangeView)

	// Employees
	api.GET("/employees", employeeRoutes.GetEmployees)
	api.GET("/employees/:id", employeeRoutes.GetEmployee)
	api.POST("/employees", employeeRoutes.CreateEmployee)
	api.PATCH("/employees/:id", employeeRoutes.UpdateEmployee)
	api.DELETE("/employees/:id", employeeRoutes.DeleteEmployee)

	// Company
	api.GET("/company", companyRoutes.GetCompany)
	api.PATCH("/company", companyRoutes.UpdateCompany)
	api.GET("/company/dashboard", companyRoutes.Dashboard)
	api.GET("/company/holidays", companyRoutes.GetHolidays)
	api.POST("/company/holidays", companyRoutes.AddHoliday)
	api.DELETE("/company/holidays/:key", companyRoutes.RemoveHoliday)
	api.POST("/company/totem/secret", companyRoutes.RotateTotemSecret)
	api.GET("/company/totem/code", companyRoutes.GetTotemCode)

	// Records
	api.POST("/records", recordRoutes.Punch)
	api.GET("/records", recordRoutes.GetRecords)
	api.GET("/records/timeline", recordRoutes.Timeline)
	api.GET("/records/history", recordRoutes.History)

	exports := api.Group("/exports", authmw.RequirePermission(entity.PermissionExport))
	exports.GET("/ledger", recordRoutes.ExportLedger)
	exports.GET("/metadata", recordRoutes.ExportMetadata)
	exports.GET("/spreadsheet", recordRoutes.ExportSpreadsheet)

	// Requests
	api.GET("/requests", requestRoutes.GetRequests)
	api.GET("/requests/:id", requestRoutes.GetRequest)
	api.POST("/requests", requestRoutes.CreateRequest)
	api.PUT("/requests/:id/decision", requestRoutes.DecideRequest)

	// Assistant
	assistant := api.Group("/assistant", authmw.RequirePermission(entity.PermissionUseAssistant))
	assistant.POST("/chat", assistantRoutes.Chat)
	assistant.GET("/summary", assistantRoutes.Summary)

	// Utilities
	api.GET("/lookup/cnpj/:cnpj", lookupRoutes.GetCompany, authmw.RequirePermission(entity.PermissionPerformLookup))

	// API Gateway websocket integration
	e.POST("/ws/connect", wsRoutes.HandleConnect, auth)
	e.POST("/ws/disconnect", wsRoutes.HandleDisconnect)
	e.POST("/ws/message", wsRoutes.HandleMessage)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	go jobs.NewConnectionCleaner(wsService).Start(ctx)
	go jobs.NewSessionCleaner(authService).Start(ctx)
	go jobs.NewLookupCacheCleaner(lookupRepo).Start(ctx)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down server: %v", err)
	}
	registry.CloseAll()
}

func newStorage(ctx context.Context, cfg *config.Config) storage.S3Client {
	if cfg.S3Bucket == "" {
		log.Warn("S3_BUCKET not set, photos will not be stored")
		return nil
	}

	client, err := storage.NewStorageClient(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		panic(err)
	}
	return client
}

func newGateway(ctx context.Context, cfg *config.Config) websocket.GatewayClient {
	if cfg.WSEndpoint == "" {
		log.Warn("WS_ENDPOINT not set, live updates are local only")
		return nil
	}

	client, err := websocket.NewAWSGatewayClient(ctx, cfg.WSEndpoint, cfg.AWSRegion)
	if err != nil {
		panic(err)
	}
	return client
}

func newDirectory(ctx context.Context, cfg *config.Config) cognitoclient.AdminDirectory {
	if !cfg.CognitoEnabled() {
		return nil
	}

	client, err := cognitoclient.NewCognitoClient(ctx, cfg.AWSRegion, cfg.CognitoClientID, cfg.CognitoPoolID)
	if err != nil {
		panic(err)
	}
	return client
}

func newGenerator(ctx context.Context, cfg *config.Config) genai.TextGenerator {
	if cfg.GenAIKey == "" {
		log.Warn("GENAI_API_KEY not set, the assistant will answer with its fallback")
		return nil
	}

	client, err := genai.NewClient(ctx, cfg.GenAIURL, cfg.GenAIModel, cfg.GenAIKey)
	if err != nil {
		panic(err)
	}
	return client
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}

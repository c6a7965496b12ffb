package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"procurement-approval/internal/adapter/events"
	httpadp "procurement-approval/internal/adapter/http"
	"procurement-approval/internal/adapter/middleware"
	"procurement-approval/internal/adapter/repository/mysql"
	"procurement-approval/internal/config"
	"procurement-approval/internal/infrastructure/cache"
	"procurement-approval/internal/infrastructure/db"
	"procurement-approval/internal/infrastructure/logging"
	"procurement-approval/internal/usecase/authz"
	"procurement-approval/internal/usecase/requisition"
)

// stream entries kept for the quotation consumer
const readyStreamMaxLen = 100_000

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.AppEnv)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.PolicyFile).Msg("load workflow policy")
	}
	clock, err := policy.Clock()
	if err != nil {
		logger.Fatal().Err(err).Msg("build sla clock")
	}
	roles, err := authz.NewRoles(authz.Members{
		Validators: policy.Roles.Validators,
		Management: policy.Roles.Management,
		Admins:     policy.Roles.Admins,
		Systems:    policy.Roles.Systems,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("build role enforcer")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("open mysql")
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("open redis")
	}
	defer rdb.Close()

	tx := mysql.NewGormUoW(gdb)
	edges := mysql.NewEdgeRepository(gdb)
	masterData := mysql.NewMasterDataRepository(gdb)

	reqUC := requisition.NewUsecase(requisition.Deps{
		UoW:           tx,
		Requisitions:  mysql.NewRequisitionRepository(gdb),
		ItemApprovals: mysql.NewItemApprovalRepository(gdb),
		Logs:          mysql.NewLogRepository(gdb),
		Edges:         edges,
		MasterData:    masterData,
		Roles:         roles,
		Clock:         clock,
		Publisher:     events.NewRedisPublisher(rdb, readyStreamMaxLen),
		Logger:        logger.With().Str("component", "requisition").Logger(),
	})
	authzUC := authz.NewUsecase(tx, edges, masterData, roles, logger.With().Str("component", "authz").Logger())

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.RequestID(), requestLogger(logger), echomw.Recover())

	e.GET("/health", httpadp.NewHandler().Health)

	api := e.Group("",
		middleware.Auth([]byte(cfg.JWTSecret)),
		middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	)
	httpadp.NewRequisitionHandler(reqUC).Register(api)
	httpadp.NewAuthzHandler(authzUC).Register(api)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ev := logger.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = logger.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("actor_id", middleware.ActorFrom(c)).
				Msg("request")
			return nil
		},
	})
}

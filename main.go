package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/yachtclub/config"
	"github.com/padraicbc/yachtclub/db"
	"github.com/padraicbc/yachtclub/handlers"
	"github.com/padraicbc/yachtclub/identity"
	applog "github.com/padraicbc/yachtclub/logger"
	"github.com/padraicbc/yachtclub/store"
	"github.com/padraicbc/yachtclub/web"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb, err := db.Setup(cfg)
	if err != nil {
		logger.Fatal("database setup failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	users := identity.NewStaticUsers(
		identity.Credential{
			User:         identity.User{ID: 1, Username: "admin", Name: cfg.AdminName, Role: identity.RoleAdmin},
			PasswordHash: cfg.AdminPasswordHash,
		},
		identity.Credential{
			User:         identity.User{ID: 2, Username: "commodore", Name: cfg.CommodoreName, Role: identity.RoleCommodore},
			PasswordHash: cfg.CommodorePasswordHash,
		},
	)
	if len(users) == 0 {
		logger.Warn("no staff accounts configured, set ADMIN_PASSWORD_HASH or COMMODORE_PASSWORD_HASH")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("create upload dir failed", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	h := handlers.New(store.New(bdb), identity.New(users, cfg.JWTKey()), logger, cfg.UploadDir)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(logger)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	// Room for a full multi-file upload plus multipart overhead.
	e.Use(echomw.BodyLimit("55M"))

	h.Register(e)
	if err := web.Register(e); err != nil {
		logger.Fatal("open embedded site failed", zap.Error(err))
	}

	if cfg.Debug || len(cfg.TLSDomains) == 0 {
		logger.Info("starting server", zap.Bool("debug", cfg.Debug), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	logger.Info("starting tls server", zap.Strings("domains", cfg.TLSDomains))
	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}

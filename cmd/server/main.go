// @title Invites Manager API
// @version 1.0
// @description Events, invitations and RSVP backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"invitesmanager/config"
	_ "invitesmanager/docs"
	"invitesmanager/internal/adapters/auth"
	"invitesmanager/internal/adapters/email"
	"invitesmanager/internal/adapters/realtime"
	"invitesmanager/internal/adapters/storage"
	delivery "invitesmanager/internal/delivery/http"
	"invitesmanager/internal/delivery/http/controllers"
	"invitesmanager/internal/domain"
	mongorepo "invitesmanager/internal/repository/mongo"
	"invitesmanager/internal/repository/postgres"
	"invitesmanager/internal/services"
)

const (
	usersStoreMongo     = "mongo"
	errorLogPurgePeriod = time.Hour
	shutdownTimeout     = 15 * time.Second
)

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("application stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	userRepo, roleRepo, closeUsers, err := openUserStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeUsers()

	objectStorage, err := storage.New(ctx, storage.Config{
		Provider:        cfg.StorageProvider,
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("object storage: %w", err)
	}
	images := storage.NewImageProcessor(cfg.ImageMaxDimension)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	hub := realtime.NewHub(cfg.CORSAllowedOrigins, logger)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	timeout := cfg.RequestTimeout

	eventRepo := postgres.NewEventRepository(db)
	inviteRepo := postgres.NewInviteRepository(db)
	groupRepo := postgres.NewInviteGroupRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	errorLogService := services.NewErrorLogService(postgres.NewErrorLogRepository(db), cfg.ErrorLogRetention, logger, timeout)
	roleService := services.NewRoleService(roleRepo, timeout)
	if err := roleService.Seed(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	userService := services.NewUserService(userRepo, roleRepo, hasher, timeout)
	authService := services.NewAuthService(userRepo, roleRepo, hasher, auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry, emailService, logger, timeout)
	eventService := services.NewEventService(eventRepo, inviteRepo, settingsRepo, timeout)
	inviteService := services.NewInviteService(inviteRepo, eventRepo, groupRepo, userRepo, hub, emailService, logger, cfg.DefaultPhoneRegion, timeout)
	groupService := services.NewInviteGroupService(groupRepo, eventRepo, timeout)
	settingsService := services.NewSettingsService(settingsRepo, eventRepo, timeout)
	fileService := services.NewFileService(postgres.NewFileRepository(db), eventRepo, objectStorage, images, logger, timeout)
	galleryService := services.NewGalleryService(postgres.NewAlbumRepository(db), eventRepo, objectStorage, images, logger, timeout)
	environmentService := services.NewEnvironmentService(postgres.NewEnvironmentRepository(db), cfg.IsDevelopment(), logger, timeout)

	responder := controllers.NewResponder(logger, errorLogService)
	router := delivery.NewRouter(delivery.Controllers{
		Auth:        controllers.NewAuthController(responder, authService),
		Events:      controllers.NewEventController(responder, eventService),
		Invites:     controllers.NewInviteController(responder, inviteService),
		InviteGroup: controllers.NewInviteGroupController(responder, groupService),
		Settings:    controllers.NewSettingsController(responder, settingsService),
		Files:       controllers.NewFileController(responder, fileService),
		Gallery:     controllers.NewGalleryController(responder, galleryService),
		Users:       controllers.NewUserController(responder, userService),
		Roles:       controllers.NewRoleController(responder, roleService),
		ErrorLogs:   controllers.NewErrorLogController(responder),
		Environment: controllers.NewEnvironmentController(responder, environmentService),
		WS:          controllers.NewWSController(responder, verifier, userService, hub),
	}, delivery.RouterConfig{
		Verifier:       verifier,
		Roles:          roleService,
		ErrorLog:       errorLogService,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting application", slog.String("addr", server.Addr), slog.String("env", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		purgeErrorLogs(gctx, errorLogService, logger)
		return nil
	})
	return g.Wait()
}

// openUserStore returns the user and role repositories selected by USERS_STORE.
func openUserStore(ctx context.Context, cfg *config.Config, db *sql.DB) (domain.UserRepository, domain.RoleRepository, func(), error) {
	if cfg.UsersStore != usersStoreMongo {
		return postgres.NewUserRepository(db), postgres.NewRoleRepository(db), func() {}, nil
	}
	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}
	database := client.Database(cfg.MongoDatabase)
	if err := mongorepo.EnsureIndexes(ctx, database); err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return mongorepo.NewUserRepository(database), mongorepo.NewRoleRepository(database), closeFn, nil
}

// purgeErrorLogs drops expired error log entries until ctx is done.
func purgeErrorLogs(ctx context.Context, errorLog domain.ErrorLogService, logger *slog.Logger) {
	ticker := time.NewTicker(errorLogPurgePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := errorLog.Purge(ctx)
			if err != nil {
				logger.Warn("error log purge failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.Info("error log purged", slog.Int64("removed", n))
			}
		}
	}
}

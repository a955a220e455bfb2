// @title                       Clinic Portal API
// @version                     1.0
// @description                 Back office for clinic and medical-tourism bookings: accounts, password setup and printable quotes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/msk-clinic/clinic-portal/docs"
	"github.com/msk-clinic/clinic-portal/internal/api"
	"github.com/msk-clinic/clinic-portal/internal/api/handler"
	"github.com/msk-clinic/clinic-portal/internal/core/document"
	"github.com/msk-clinic/clinic-portal/internal/core/notification"
	"github.com/msk-clinic/clinic-portal/internal/core/service"
	mongodb "github.com/msk-clinic/clinic-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/msk-clinic/clinic-portal/internal/infrastructure/db/redis"
	"github.com/msk-clinic/clinic-portal/internal/infrastructure/mail"
	"github.com/msk-clinic/clinic-portal/internal/infrastructure/queue"
	"github.com/msk-clinic/clinic-portal/internal/infrastructure/storage"
	"github.com/msk-clinic/clinic-portal/internal/pkg/config"
	"github.com/msk-clinic/clinic-portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "clinic-portal",
		Caller:  !cfg.IsDevelopment(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	quotes := mongodb.NewQuoteRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, quotes); err != nil {
		return err
	}

	archive, err := storage.NewS3Archive(ctx, storage.Config{
		Bucket:       cfg.S3.Bucket,
		Region:       cfg.S3.Region,
		BaseEndpoint: cfg.S3.BaseEndpoint,
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		return err
	}

	var mailer mail.Mailer = mail.NewLogMailer(log)
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.Mail.From,
		})
	}
	dispatcher := queue.NewMailDispatcher(cfg.Mail.Workers, cfg.Mail.Buffer, mailer, log)
	dispatcher.Start(ctx)

	notifier := notification.NewPasswordResetNotifier(notification.Config{
		FrontendURL:   cfg.FrontendURL,
		AppName:       cfg.Mail.AppName,
		FromAddress:   cfg.Mail.From,
		ExpireMinutes: int(cfg.Mail.ResetTokenTTL / time.Minute),
	})
	renderer := document.NewQuoteRenderer(document.Company{
		Name:          cfg.Company.Name,
		AddressLines:  cfg.Company.AddressLines,
		Phone:         cfg.Company.Phone,
		Email:         cfg.Company.Email,
		Website:       cfg.Company.Website,
		LogoURL:       cfg.Company.LogoURL,
		BankName:      cfg.Company.BankName,
		AccountHolder: cfg.Company.AccountHolder,
		IBAN:          cfg.Company.IBAN,
		SWIFT:         cfg.Company.SWIFT,
		Currency:      cfg.Company.Currency,
	})

	resets := service.NewPasswordResetService(users, redisdb.NewResetTokenStore(rdb), dispatcher, notifier, cfg.Mail.ResetTokenTTL, log)

	e := api.NewRouter(api.Dependencies{
		Log:          log,
		JWTSecret:    cfg.JWTSecret,
		AuthService:  service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL),
		UserService:  service.NewUserService(users, quotes, resets, log),
		ResetService: resets,
		QuoteService: service.NewQuoteService(quotes, renderer, archive, log),
		ReadinessChecks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	cancelWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
	return nil
}

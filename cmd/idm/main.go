package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/sanjaykumar-22/iics-idm/pkg/config"
	"github.com/sanjaykumar-22/iics-idm/pkg/login"
	"github.com/sanjaykumar-22/iics-idm/pkg/login/api"
	"github.com/sanjaykumar-22/iics-idm/pkg/notification"
	"github.com/sanjaykumar-22/iics-idm/pkg/otp"
	"github.com/sanjaykumar-22/iics-idm/pkg/sessions"
	tg "github.com/sanjaykumar-22/iics-idm/pkg/tokengenerator"
)

type Config struct {
	DatabaseConfig config.DatabaseConfig
	AppConfig      app.AppConfig
	JwtConfig      config.JwtConfig
	SessionConfig  config.SessionConfig
	OtpConfig      config.OtpConfig
	SmsConfig      config.SmsConfig
	EmailConfig    config.EmailConfig
}

func main() {
	godotenv.Load()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := cfg.DatabaseConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	accessExpiry, err := cfg.JwtConfig.ParseAccessTokenExpiry()
	if err != nil {
		slog.Error("Invalid access token expiry", "value", cfg.JwtConfig.AccessTokenExpiry, "err", err)
		os.Exit(-1)
	}
	refreshExpiry, err := cfg.JwtConfig.ParseRefreshTokenExpiry()
	if err != nil {
		slog.Error("Invalid refresh token expiry", "value", cfg.JwtConfig.RefreshTokenExpiry, "err", err)
		os.Exit(-1)
	}
	otpTokenExpiry, err := cfg.JwtConfig.ParseOtpTokenExpiry()
	if err != nil {
		slog.Error("Invalid otp token expiry", "value", cfg.JwtConfig.OtpTokenExpiry, "err", err)
		os.Exit(-1)
	}
	sessionExpiry, err := cfg.SessionConfig.ParseExpiry()
	if err != nil {
		slog.Error("Invalid session expiry", "value", cfg.SessionConfig.Expiry, "err", err)
		os.Exit(-1)
	}
	regenWindow, err := cfg.OtpConfig.ParseRegenWindow()
	if err != nil {
		slog.Error("Invalid otp regen window", "value", cfg.OtpConfig.RegenWindow, "err", err)
		os.Exit(-1)
	}
	smsTimeout, err := cfg.SmsConfig.ParseTimeout()
	if err != nil {
		slog.Error("Invalid sms timeout", "value", cfg.SmsConfig.Timeout, "err", err)
		os.Exit(-1)
	}

	tokenService := tg.NewJwtService(
		tg.NewJwtTokenGenerator(cfg.JwtConfig.Secret, cfg.JwtConfig.Issuer, cfg.JwtConfig.Audience),
		tg.WithAccessTokenExpiry(accessExpiry),
		tg.WithRefreshTokenExpiry(refreshExpiry),
		tg.WithOtpTokenExpiry(otpTokenExpiry),
	)

	sessionService := sessions.NewService(sessions.NewPostgresSessionRepository(pool))

	credentialRepo := login.NewPostgresCredentialRepository(pool)
	loginService := login.NewLoginService(
		credentialRepo,
		sessionService,
		tokenService,
		login.WithSessionExpiry(sessionExpiry),
	)

	notificationManager := notification.NewManager()
	notificationManager.RegisterNotifier(notification.ChannelSMS, notification.NewSMSNotifier(notification.SmsGatewayConfig{
		GatewayURL:  cfg.SmsConfig.GatewayURL,
		UserID:      cfg.SmsConfig.UserID,
		Password:    cfg.SmsConfig.Password,
		SenderID:    cfg.SmsConfig.SenderID,
		ServiceName: cfg.SmsConfig.ServiceName,
		Timeout:     smsTimeout,
	}))

	emailNotifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
		Host:     cfg.EmailConfig.Host,
		Port:     cfg.EmailConfig.Port,
		TLS:      cfg.EmailConfig.TLS,
		Username: cfg.EmailConfig.Username,
		Password: cfg.EmailConfig.Password,
		From:     cfg.EmailConfig.From,
	})
	if err != nil {
		slog.Error("Failed creating email notifier", "err", err)
		os.Exit(-1)
	}
	notificationManager.RegisterNotifier(notification.ChannelEmail, emailNotifier)

	otpService := otp.NewService(
		otp.NewPostgresOtpRepository(pool),
		credentialRepo,
		tokenService,
		notificationManager,
		otp.WithIssueMonths(cfg.OtpConfig.IssueMonths),
		otp.WithRegenWindow(regenWindow),
	)

	cookieSetter := tg.NewCookieSetter(cfg.JwtConfig.CookieHttpOnly, cfg.JwtConfig.CookieSecure, cfg.JwtConfig.CookieSameSite())
	handle := api.NewHandle(loginService, otpService, cookieSetter)
	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.Secret), nil)

	server.R.Mount("/api/v1", api.Handler(handle, tokenAuth))

	server.Run()
}

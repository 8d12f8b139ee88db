package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"

	"github.com/sanjaykumar-22/iics-idm/pkg/config"
	"github.com/sanjaykumar-22/iics-idm/pkg/login"
	"github.com/sanjaykumar-22/iics-idm/pkg/login/api"
	"github.com/sanjaykumar-22/iics-idm/pkg/notification"
	"github.com/sanjaykumar-22/iics-idm/pkg/otp"
	"github.com/sanjaykumar-22/iics-idm/pkg/sessions"
	tg "github.com/sanjaykumar-22/iics-idm/pkg/tokengenerator"
)

type Config struct {
	AppConfig app.AppConfig
	JwtConfig config.JwtConfig
}

// Runs the full API against in-memory repositories with one seeded user
// (EMP1001 / Secret@123, mobile 9876543210). OTP sends land in a mock
// notifier and are logged instead of delivered.
func main() {
	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	tokenService := tg.NewJwtService(
		tg.NewJwtTokenGenerator(cfg.JwtConfig.Secret, cfg.JwtConfig.Issuer, cfg.JwtConfig.Audience),
	)

	credentialRepo := login.NewInMemoryCredentialRepository()
	sessionService := sessions.NewService(sessions.NewInMemorySessionRepository())
	loginService := login.NewLoginService(credentialRepo, sessionService, tokenService)

	ctx := context.Background()
	if err := credentialRepo.CreateIdentity(ctx, login.Identity{
		UserID:       "EMP1001",
		MobileNumber: "9876543210",
	}); err != nil {
		slog.Error("Failed seeding identity", "err", err)
		os.Exit(-1)
	}
	hashed, err := login.HashPassword("Secret@123")
	if err != nil {
		slog.Error("Failed hashing seed password", "err", err)
		os.Exit(-1)
	}
	if err := credentialRepo.AppendPasswordRecord(ctx, "EMP1001", []byte(hashed), time.Now().UTC()); err != nil {
		slog.Error("Failed seeding password", "err", err)
		os.Exit(-1)
	}

	notificationManager := notification.NewManager()
	notificationManager.RegisterNotifier(notification.ChannelSMS, notification.NewMockNotifier())

	otpService := otp.NewService(
		otp.NewInMemoryOtpRepository(),
		credentialRepo,
		tokenService,
		notificationManager,
	)

	cookieSetter := tg.NewCookieSetter(true, false, http.SameSiteLaxMode)
	handle := api.NewHandle(loginService, otpService, cookieSetter)
	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.Secret), nil)

	server.R.Mount("/api/v1", api.Handler(handle, tokenAuth))

	slog.Info("Demo server seeded", "userID", "EMP1001", "password", "Secret@123")
	server.Run()
}

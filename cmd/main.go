package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/novelnest/novelnest-server/internal/api/grpc/context"
	"github.com/novelnest/novelnest-server/internal/api/grpc/router"
	grpcServer "github.com/novelnest/novelnest-server/internal/api/grpc/server"
	"github.com/novelnest/novelnest-server/internal/config"
	"github.com/novelnest/novelnest-server/internal/credential"
	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
	"github.com/novelnest/novelnest-server/internal/otp"
	"github.com/novelnest/novelnest-server/internal/phone"
	"github.com/novelnest/novelnest-server/internal/repository/memory"
	"github.com/novelnest/novelnest-server/internal/repository/postgres"
	"github.com/novelnest/novelnest-server/internal/repository/redis"
	"github.com/novelnest/novelnest-server/internal/server"
	"github.com/novelnest/novelnest-server/internal/service"
	"github.com/novelnest/novelnest-server/internal/sms"
	storage "github.com/novelnest/novelnest-server/internal/storage/minio"
	"github.com/novelnest/novelnest-server/internal/token"
	"github.com/novelnest/novelnest-server/internal/validate"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer st.close(logger)

	hasher := credential.NewHasher(credential.KDFParams{Time: cfg.KDF.Time, MemKiB: cfg.KDF.MemKiB, Par: cfg.KDF.Par})
	normalizer := phone.NewNormalizer(cfg.Phone.CountryCode)
	validator := validate.New(cfg.OTP.CodeLength)

	generator, dispatcher, err := smsPipeline(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize sms", "error", err)
	}

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret), st.refreshTokens, logger)
	registration := service.NewRegistration(st.users, st.otps, hasher, generator, dispatcher, normalizer, validator,
		service.OTPPolicy{
			TTL:            cfg.OTP.TTL(),
			ResendInterval: cfg.OTP.ResendInterval(),
			MaxAttempts:    cfg.OTP.MaxAttempts,
		}, logger)
	login := service.NewLogin(st.users, hasher, tokenService, normalizer, validator, logger)

	var wg sync.WaitGroup

	if st.purger != nil {
		purge := service.NewOTPPurge(st.purger, cfg.OTP.TTL(), logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			purge.Run(ctx, cfg.OTP.PurgeInterval)
		}()
	}

	r := router.New(router.Services{
		Registration: registration,
		Login:        login,
		Tokens:       tokenService,
	}, router.RateLimit{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst}, grpcctx.NewManager(), logger)
	s := r.Register()
	reflection.Register(s)
	grpcSrv := grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcSrv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcSrv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcSrv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

type stores struct {
	users         model.UserStore
	otps          model.OTPStore
	refreshTokens model.RefreshTokenStore
	// purger is nil when the OTP store expires keys by itself.
	purger  service.ExpiredOTPPurger
	closers []func() error
}

func (s *stores) close(logger *logger.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}
}

// openStores connects the backends named by USER_STORE and OTP_STORE.
// Refresh tokens live next to users.
func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*stores, error) {
	st := &stores{}

	var db *postgres.Connection
	if cfg.UserStore == config.StorePostgres || cfg.OTP.Store == config.StorePostgres {
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		db = conn
		st.closers = append(st.closers, db.Close)
	}

	switch cfg.UserStore {
	case config.StorePostgres:
		st.users = postgres.NewUserRepository(db)
		st.refreshTokens = postgres.NewRefreshTokenRepository(db)
	default:
		logger.Warn("using in-memory user store, accounts are lost on restart")
		st.users = memory.NewUserStore()
		st.refreshTokens = memory.NewRefreshTokenStore()
	}

	switch cfg.OTP.Store {
	case config.StorePostgres:
		repo := postgres.NewOTPRepository(db)
		st.otps, st.purger = repo, repo
	case config.StoreRedis:
		client, err := redis.NewClient(ctx, redis.Options{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			st.close(logger)
			return nil, err
		}
		st.closers = append(st.closers, client.Close)
		st.otps = redis.NewOTPRepository(client, cfg.Redis.Retention)
	default:
		repo := memory.NewOTPStore()
		st.otps, st.purger = repo, repo
	}

	logger.Info("stores ready", "users", cfg.UserStore, "otp", cfg.OTP.Store)
	return st, nil
}

// smsPipeline picks the code generator and dispatcher. Simulation sends a
// fixed code and never reaches the gateway.
func smsPipeline(ctx context.Context, cfg *config.Config, logger *logger.Logger) (otp.Generator, model.SMSDispatcher, error) {
	if !cfg.SMS.Simulate {
		client := sms.NewIdeamartClient(sms.IdeamartConfig{
			URL:           cfg.SMS.URL,
			ApplicationID: cfg.SMS.AppID,
			Password:      cfg.SMS.Password,
			SourceAddress: cfg.SMS.Shortcode,
			Timeout:       cfg.SMS.Timeout,
		}, logger)
		return otp.NewGOTPGenerator(cfg.OTP.CodeLength), client, nil
	}

	logger.Warn("SMS simulation enabled, every verification code is fixed")

	var outbox *sms.Outbox
	if cfg.Storage.OutboxEnabled {
		client, err := storage.Connect(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		outbox = sms.NewOutbox(client)
	}

	return otp.NewFixedGenerator(cfg.SMS.SimulatedCode), sms.NewSimulatedDispatcher(logger, outbox), nil
}

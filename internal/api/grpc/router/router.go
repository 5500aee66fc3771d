package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/ratelimit"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/novelnest/novelnest-server/internal/api/grpc/authpb"
	"github.com/novelnest/novelnest-server/internal/api/grpc/handler"
	"github.com/novelnest/novelnest-server/internal/api/grpc/middleware"
	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
	"github.com/novelnest/novelnest-server/internal/service"
)

// Services bundles what the router exposes.
type Services struct {
	Registration *service.Registration
	Login        *service.Login
	Tokens       *service.TokenService
}

// RateLimit configures per-peer throttling. Zero RPS disables it.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Router registers NovelNest gRPC services and their interceptors.
type Router struct {
	services       Services
	rateLimit      RateLimit
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(services Services, rateLimit RateLimit, contextManager model.ContextManager, logger *logger.Logger) *Router {
	return &Router{
		services:       services,
		rateLimit:      rateLimit,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth matches every method outside the public Auth service.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return c.Service != authpb.AuthServiceName
}

// Register builds the gRPC server with logging, panic recovery, rate
// limiting and bearer authentication.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.services.Tokens, r.contextManager, r.logger)

	unary := []grpc.UnaryServerInterceptor{
		logging.HandleGRPC,
		recovery.UnaryServerInterceptor(middleware.Recovery(r.logger)),
	}
	if r.rateLimit.RPS > 0 {
		limiter := middleware.NewPeerLimiter(r.rateLimit.RPS, r.rateLimit.Burst)
		unary = append(unary, ratelimit.UnaryServerInterceptor(limiter))
	}
	unary = append(unary, selector.UnaryServerInterceptor(
		auth.UnaryServerInterceptor(authenticate.AuthFunc),
		selector.MatchFunc(requiresAuth),
	))

	s := grpc.NewServer(append(opts, grpc.ChainUnaryInterceptor(unary...))...)

	authpb.RegisterAuthServer(s, handler.NewAuth(r.services.Registration, r.services.Login, r.services.Tokens, r.logger))
	authpb.RegisterAccountServer(s, handler.NewAccount(r.services.Login, r.services.Tokens, r.contextManager, r.logger))

	return s
}

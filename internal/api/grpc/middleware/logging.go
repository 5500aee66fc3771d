package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/novelnest/novelnest-server/internal/logger"
)

// Logging is a unary interceptor that logs gRPC requests and results.
// Request bodies are never logged since they carry passwords and codes.
type Logging struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger, now: time.Now}
}

// HandleGRPC logs method, peer, duration and status for each unary request.
func (l *Logging) HandleGRPC(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := l.now()
	log := l.logger.With("method", info.FullMethod, "peer", peerKey(ctx))

	log.Debug("gRPC request started")

	resp, err := handler(ctx, req)

	statusCode := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			statusCode = st.Code()
		} else {
			statusCode = codes.Internal
		}
	}

	attrs := []any{
		"duration_ms", l.now().Sub(start).Milliseconds(),
		"status", statusCode.String(),
	}

	switch {
	case err == nil:
		log.Info("gRPC request completed", attrs...)
	case serverFault(statusCode):
		log.Error("gRPC request failed", append(attrs, "error", err.Error())...)
	default:
		log.Warn("gRPC request rejected", append(attrs, "error", err.Error())...)
	}

	return resp, err
}

func serverFault(code codes.Code) bool {
	switch code {
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss, codes.Unimplemented:
		return true
	default:
		return false
	}
}

package middleware

import (
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
)

// Recovery turns handler panics into Internal errors with the generic
// message.
func Recovery(log *logger.Logger) recovery.Option {
	return recovery.WithRecoveryHandler(func(p any) error {
		log.Error("gRPC handler panicked", "panic", fmt.Sprint(p))
		return status.Error(codes.Internal, model.GenericErrorMessage)
	})
}

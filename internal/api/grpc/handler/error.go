package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/novelnest/novelnest-server/internal/model"
)

// userMessage is the text a client may render for err.
func userMessage(err error) string {
	if authErr, ok := model.AsAuthError(err); ok {
		return authErr.Message
	}
	return model.GenericErrorMessage
}

func handleError(err error) error {
	if authErr, ok := model.AsAuthError(err); ok {
		return status.Error(grpcCode(authErr.Kind), authErr.Message)
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, model.GenericErrorMessage)
	}
}

func grpcCode(kind model.ErrorKind) codes.Code {
	switch kind {
	case model.KindValidation:
		return codes.InvalidArgument
	case model.KindNotFound:
		return codes.NotFound
	case model.KindExpired, model.KindInvariant:
		return codes.FailedPrecondition
	case model.KindLocked:
		return codes.ResourceExhausted
	case model.KindMismatch, model.KindDenied:
		return codes.PermissionDenied
	case model.KindConflict:
		return codes.AlreadyExists
	case model.KindUpstream:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// tokenError hides why a token was rejected.
func tokenError(err error) error {
	switch {
	case errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch),
		errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "invalid refresh token")
	default:
		return status.Error(codes.Internal, model.GenericErrorMessage)
	}
}

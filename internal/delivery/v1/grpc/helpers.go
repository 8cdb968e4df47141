package grpc

import (
	"errors"

	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GRPCErrorResponse переводит доменные ошибки в статусы gRPC. Уже готовые статусы возвращаются как есть.
func GRPCErrorResponse(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, e.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, e.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, e.ErrUnprocessable):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

package grpc

import (
	"context"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/samber/oops"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var kindCodes = map[common.Kind]codes.Code{
	common.KindNotFound:           codes.NotFound,
	common.KindAlreadyExists:      codes.AlreadyExists,
	common.KindInvalidCredentials: codes.Unauthenticated,
	common.KindUnauthenticated:    codes.Unauthenticated,
	common.KindInvalidToken:       codes.PermissionDenied,
	common.KindInsufficientFunds:  codes.FailedPrecondition,
	common.KindCardNotOwned:       codes.FailedPrecondition,
	common.KindNoBoosterAvailable: codes.FailedPrecondition,
	common.KindSlotLimitExceeded:  codes.ResourceExhausted,
	common.KindValidation:         codes.InvalidArgument,
	common.KindInternal:           codes.Internal,
}

var kindMessages = map[common.Kind]string{
	common.KindNotFound:           common.ErrorNotFound.Error(),
	common.KindAlreadyExists:      common.ErrorAlreadyExists.Error(),
	common.KindInvalidCredentials: common.ErrorInvalidCredentials.Error(),
	common.KindUnauthenticated:    common.ErrorUnauthenticated.Error(),
	common.KindInvalidToken:       common.ErrInvalidToken.Error(),
	common.KindInsufficientFunds:  common.ErrInsufficientFunds.Error(),
	common.KindCardNotOwned:       common.ErrCardNotOwned.Error(),
	common.KindNoBoosterAvailable: common.ErrNoBoosterAvailable.Error(),
	common.KindSlotLimitExceeded:  common.ErrSlotLimitExceeded.Error(),
	common.KindValidation:         common.ErrorValidation.Error(),
	common.KindInternal:           common.ErrorInternal.Error(),
}

// CodeOf returns the status code a kind is reported with.
func CodeOf(kind common.Kind) codes.Code {
	if c, ok := kindCodes[kind]; ok {
		return c
	}
	return codes.Internal
}

// toStatus converts a domain error into a status error carrying only the
// sentinel text, and attaches the kind as the error-kind trailer.
func (s *Server) toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	kind := common.KindOf(err)
	if terr := grpc.SetTrailer(ctx, metadata.Pairs(common.ErrorKindTrailerName, string(kind))); terr != nil {
		s.logger.Debug(ctx, "error-kind trailer not set", "kind", string(kind), "error", terr)
	}

	msg, ok := kindMessages[kind]
	if !ok {
		msg = common.ErrorInternal.Error()
	}
	return status.Error(CodeOf(kind), msg)
}

// decodeError reports a request body that could not be decoded as a
// validation failure.
func (s *Server) decodeError(ctx context.Context, err error) error {
	return s.toStatus(ctx, oops.In("grpc").
		Code(common.KindValidation.Code()).
		Wrapf(common.ErrorValidation, "decode request: %v", err))
}

// KindFromTrailer reads the error kind a call reported, if any.
func KindFromTrailer(md metadata.MD) common.Kind {
	if v := md.Get(common.ErrorKindTrailerName); len(v) > 0 {
		return common.Kind(v[0])
	}
	return common.KindNone
}

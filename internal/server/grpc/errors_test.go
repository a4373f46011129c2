package grpc

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	ctx := context.Background()
	s := NewServer("", &fakeSessions{}, logging.Nop())
	cases := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{common.ErrorNotFound, codes.NotFound, "not found"},
		{common.ErrorAlreadyExists, codes.AlreadyExists, "already exists"},
		{common.ErrorInvalidCredentials, codes.Unauthenticated, "invalid credentials"},
		{common.ErrorUnauthenticated, codes.Unauthenticated, "unauthenticated"},
		{common.ErrInvalidToken, codes.PermissionDenied, "invalid token"},
		{common.ErrInsufficientFunds, codes.FailedPrecondition, "insufficient funds"},
		{common.ErrCardNotOwned, codes.FailedPrecondition, "card not owned"},
		{common.ErrNoBoosterAvailable, codes.FailedPrecondition, "no booster available"},
		{common.ErrSlotLimitExceeded, codes.ResourceExhausted, "booster slot limit exceeded"},
		{common.ErrorValidation, codes.InvalidArgument, "validation error"},
		{errors.New("pq: connection refused"), codes.Internal, "internal error"},
		{oops.In("economy").With("coins", 3).Wrap(common.ErrInsufficientFunds), codes.FailedPrecondition, "insufficient funds"},
	}
	for _, tc := range cases {
		st, ok := status.FromError(s.toStatus(ctx, tc.err))
		if assert.True(t, ok) {
			assert.Equal(t, tc.code, st.Code(), tc.err.Error())
			assert.Equal(t, tc.msg, st.Message())
		}
	}
}

func TestToStatus_PassesThrough(t *testing.T) {
	ctx := context.Background()
	s := NewServer("", &fakeSessions{}, logging.Nop())
	assert.NoError(t, s.toStatus(ctx, nil))

	in := status.Error(codes.Canceled, "gone")
	assert.Equal(t, in, s.toStatus(ctx, in))
}

func TestToStatus_LogsTrailerFailure(t *testing.T) {
	var buf bytes.Buffer
	s := NewServer("", &fakeSessions{}, logging.NewJSON(&buf, "debug"))

	// A plain context has no server stream, so the trailer cannot be set.
	err := s.toStatus(context.Background(), common.ErrCardNotOwned)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Contains(t, buf.String(), "error-kind trailer not set")
	assert.Contains(t, buf.String(), string(common.KindCardNotOwned))
}

func TestUnary_UndecodableRequestIsInvalidArgument(t *testing.T) {
	s := NewServer("", &fakeSessions{}, logging.Nop())
	dec := func(any) error { return errors.New("unexpected end of JSON input") }

	for _, m := range ServiceDesc.Methods {
		_, err := m.Handler(s, context.Background(), dec, nil)
		st, ok := status.FromError(err)
		if assert.True(t, ok, m.MethodName) {
			assert.Equal(t, codes.InvalidArgument, st.Code(), m.MethodName)
			assert.Equal(t, "validation error", st.Message(), m.MethodName)
		}
	}
}

func TestCodeOf_Unknown(t *testing.T) {
	assert.Equal(t, codes.Internal, CodeOf(common.Kind("Whatever")))
}

func TestKindFromTrailer(t *testing.T) {
	md := metadata.Pairs(common.ErrorKindTrailerName, string(common.KindCardNotOwned))
	assert.Equal(t, common.KindCardNotOwned, KindFromTrailer(md))
	assert.Equal(t, common.KindNone, KindFromTrailer(metadata.MD{}))
}

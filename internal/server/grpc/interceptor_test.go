package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func callInterceptor(t *testing.T, method string, md metadata.MD) (string, bool, error) {
	t.Helper()
	s := NewServer("", nil, logging.Nop())

	ctx := context.Background()
	if md != nil {
		ctx = metadata.NewIncomingContext(ctx, md)
	}

	var (
		seen   string
		called bool
	)
	handler := func(ctx context.Context, req any) (any, error) {
		called = true
		seen = accessTokenFromContext(ctx)
		return "ok", nil
	}
	_, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: fullMethod(method)}, handler)
	return seen, called, err
}

func TestAccessTokenInterceptor_PublicMethods(t *testing.T) {
	for _, m := range []string{"Register", "Login", "Refresh"} {
		_, called, err := callInterceptor(t, m, nil)
		require.NoError(t, err, m)
		assert.True(t, called, m)
	}
}

func TestAccessTokenInterceptor_MissingHeader(t *testing.T) {
	_, called, err := callInterceptor(t, "GetProfile", nil)
	assert.False(t, called)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestAccessTokenInterceptor_WrongScheme(t *testing.T) {
	_, called, err := callInterceptor(t, "SellCard", metadata.Pairs("authorization", "Basic abc"))
	assert.False(t, called)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestAccessTokenInterceptor_PutsTokenInContext(t *testing.T) {
	seen, called, err := callInterceptor(t, "UseBooster", metadata.Pairs("authorization", "Bearer tok-123"))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "tok-123", seen)
}

func TestLoggingInterceptor_ReturnsHandlerResult(t *testing.T) {
	s := NewServer("", nil, logging.Nop())
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod("Login")}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "resp", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "resp", resp)

	_, err = s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.Internal, "boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}

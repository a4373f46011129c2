// Package grpc exposes the session façade over gRPC. Messages are plain Go
// structs carried by a JSON codec, the service descriptor is declared by
// hand, and domain error kinds map to status codes.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/dmitrijs2005/gachaserver/internal/server/models"
	"google.golang.org/grpc"
)

// Sessions is the operation surface the transport serves.
type Sessions interface {
	Register(ctx context.Context, name, password string) error
	Login(ctx context.Context, name, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	GetProfile(ctx context.Context, accessToken string) (*models.Profile, error)
	Rename(ctx context.Context, accessToken, newName string) (*models.Profile, *models.TokenPair, error)
	ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, accessToken string) error
	GetCollection(ctx context.Context, accessToken string) ([]int, error)
	SellCard(ctx context.Context, accessToken string, cardID int) (int, error)
	AddCards(ctx context.Context, accessToken string, cardIDs []int) ([]int, error)
	CheckBoosterSlots(ctx context.Context, accessToken string) (int, error)
	UseBooster(ctx context.Context, accessToken string) (int, error)
	BuyBooster(ctx context.Context, accessToken string, price int) (int, error)
}

type Server struct {
	address  string
	sessions Sessions
	logger   logging.Logger
}

func NewServer(address string, sessions Sessions, logger logging.Logger) *Server {
	return &Server{
		address:  address,
		sessions: sessions,
		logger:   logger.With("module", "grpc_server"),
	}
}

func (s *Server) newGRPCServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv.RegisterService(&ServiceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newGRPCServer()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}

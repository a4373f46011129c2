package grpc

import (
	"context"
)

var _ AccountServiceServer = (*Server)(nil)

const (
	msgUserCreated     = "User created"
	msgPasswordChanged = "Password changed"
	msgAccountDeleted  = "Account deleted"
)

func (s *Server) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if err := s.sessions.Register(ctx, req.Name, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RegisterResponse{Message: msgUserCreated}, nil
}

func (s *Server) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	pair, err := s.sessions.Login(ctx, req.Name, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tokenResponse(pair), nil
}

func (s *Server) Refresh(ctx context.Context, req *RefreshRequest) (*TokenResponse, error) {
	pair, err := s.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tokenResponse(pair), nil
}

func (s *Server) GetProfile(ctx context.Context, _ *Empty) (*ProfileResponse, error) {
	profile, err := s.sessions.GetProfile(ctx, accessTokenFromContext(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ProfileResponse{Profile: profile}, nil
}

func (s *Server) Rename(ctx context.Context, req *RenameRequest) (*RenameResponse, error) {
	profile, pair, err := s.sessions.Rename(ctx, accessTokenFromContext(ctx), req.NewName)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RenameResponse{Profile: profile, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *Server) ChangePassword(ctx context.Context, req *ChangePasswordRequest) (*MessageResponse, error) {
	err := s.sessions.ChangePassword(ctx, accessTokenFromContext(ctx), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &MessageResponse{Message: msgPasswordChanged}, nil
}

func (s *Server) DeleteAccount(ctx context.Context, _ *Empty) (*MessageResponse, error) {
	if err := s.sessions.DeleteAccount(ctx, accessTokenFromContext(ctx)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &MessageResponse{Message: msgAccountDeleted}, nil
}

func (s *Server) GetCollection(ctx context.Context, _ *Empty) (*CollectionResponse, error) {
	collection, err := s.sessions.GetCollection(ctx, accessTokenFromContext(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &CollectionResponse{Collection: collection}, nil
}

func (s *Server) SellCard(ctx context.Context, req *SellCardRequest) (*CoinsResponse, error) {
	coins, err := s.sessions.SellCard(ctx, accessTokenFromContext(ctx), req.CardID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &CoinsResponse{Coins: coins}, nil
}

func (s *Server) AddCards(ctx context.Context, req *AddCardsRequest) (*CollectionResponse, error) {
	collection, err := s.sessions.AddCards(ctx, accessTokenFromContext(ctx), req.CardIDs)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &CollectionResponse{Collection: collection}, nil
}

func (s *Server) CheckBoosterSlots(ctx context.Context, _ *Empty) (*SlotsResponse, error) {
	slots, err := s.sessions.CheckBoosterSlots(ctx, accessTokenFromContext(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &SlotsResponse{Slots: slots}, nil
}

func (s *Server) UseBooster(ctx context.Context, _ *Empty) (*SlotsResponse, error) {
	slots, err := s.sessions.UseBooster(ctx, accessTokenFromContext(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &SlotsResponse{Slots: slots}, nil
}

func (s *Server) BuyBooster(ctx context.Context, req *BuyBoosterRequest) (*CoinsResponse, error) {
	coins, err := s.sessions.BuyBooster(ctx, accessTokenFromContext(ctx), req.Price)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &CoinsResponse{Coins: coins}, nil
}

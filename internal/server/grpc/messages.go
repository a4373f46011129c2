package grpc

import "github.com/dmitrijs2005/gachaserver/internal/server/models"

type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type Empty struct{}

type ProfileResponse struct {
	Profile *models.Profile `json:"user"`
}

type RenameRequest struct {
	NewName string `json:"newName"`
}

type RenameResponse struct {
	Profile      *models.Profile `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CollectionResponse struct {
	Collection []int `json:"collection"`
}

type SellCardRequest struct {
	CardID int `json:"cardId"`
}

type CoinsResponse struct {
	Coins int `json:"coins"`
}

type AddCardsRequest struct {
	CardIDs []int `json:"cardIds"`
}

type SlotsResponse struct {
	Slots int `json:"slots"`
}

type BuyBoosterRequest struct {
	Price int `json:"price"`
}

func tokenResponse(p *models.TokenPair) *TokenResponse {
	return &TokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

package grpc

import (
	"context"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls AccountService over an existing connection using the JSON
// codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithAccessToken returns a context that sends token as a bearer credential.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerScheme+" "+token)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, "Register", in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, "Login", in, opts...)
}

func (c *Client) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, "Refresh", in, opts...)
}

func (c *Client) GetProfile(ctx context.Context, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, "GetProfile", &Empty{}, opts...)
}

func (c *Client) Rename(ctx context.Context, in *RenameRequest, opts ...grpc.CallOption) (*RenameResponse, error) {
	return invoke[RenameResponse](ctx, c.cc, "Rename", in, opts...)
}

func (c *Client) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "ChangePassword", in, opts...)
}

func (c *Client) DeleteAccount(ctx context.Context, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "DeleteAccount", &Empty{}, opts...)
}

func (c *Client) GetCollection(ctx context.Context, opts ...grpc.CallOption) (*CollectionResponse, error) {
	return invoke[CollectionResponse](ctx, c.cc, "GetCollection", &Empty{}, opts...)
}

func (c *Client) SellCard(ctx context.Context, in *SellCardRequest, opts ...grpc.CallOption) (*CoinsResponse, error) {
	return invoke[CoinsResponse](ctx, c.cc, "SellCard", in, opts...)
}

func (c *Client) AddCards(ctx context.Context, in *AddCardsRequest, opts ...grpc.CallOption) (*CollectionResponse, error) {
	return invoke[CollectionResponse](ctx, c.cc, "AddCards", in, opts...)
}

func (c *Client) CheckBoosterSlots(ctx context.Context, opts ...grpc.CallOption) (*SlotsResponse, error) {
	return invoke[SlotsResponse](ctx, c.cc, "CheckBoosterSlots", &Empty{}, opts...)
}

func (c *Client) UseBooster(ctx context.Context, opts ...grpc.CallOption) (*SlotsResponse, error) {
	return invoke[SlotsResponse](ctx, c.cc, "UseBooster", &Empty{}, opts...)
}

func (c *Client) BuyBooster(ctx context.Context, in *BuyBoosterRequest, opts ...grpc.CallOption) (*CoinsResponse, error) {
	return invoke[CoinsResponse](ctx, c.cc, "BuyBooster", in, opts...)
}

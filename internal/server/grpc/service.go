package grpc

import (
	"context"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gacha.v1.AccountService"

// AccountServiceServer is the method set served under ServiceName.
type AccountServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	Refresh(context.Context, *RefreshRequest) (*TokenResponse, error)
	GetProfile(context.Context, *Empty) (*ProfileResponse, error)
	Rename(context.Context, *RenameRequest) (*RenameResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*MessageResponse, error)
	DeleteAccount(context.Context, *Empty) (*MessageResponse, error)
	GetCollection(context.Context, *Empty) (*CollectionResponse, error)
	SellCard(context.Context, *SellCardRequest) (*CoinsResponse, error)
	AddCards(context.Context, *AddCardsRequest) (*CollectionResponse, error)
	CheckBoosterSlots(context.Context, *Empty) (*SlotsResponse, error)
	UseBooster(context.Context, *Empty) (*SlotsResponse, error)
	BuyBooster(context.Context, *BuyBoosterRequest) (*CoinsResponse, error)
}

// Methods that are callable without an access token.
var publicMethods = map[string]bool{
	fullMethod("Register"): true,
	fullMethod("Login"):    true,
	fullMethod("Refresh"):  true,
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// decodeErrorReporter lets an implementation attach its own error trailer to
// undecodable requests.
type decodeErrorReporter interface {
	decodeError(ctx context.Context, err error) error
}

func unary[Req, Resp any](name string, call func(AccountServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				if r, ok := srv.(decodeErrorReporter); ok {
					return nil, r.decodeError(ctx, err)
				}
				return nil, status.Error(codes.InvalidArgument, common.ErrorValidation.Error())
			}
			s := srv.(AccountServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes AccountService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", AccountServiceServer.Register),
		unary("Login", AccountServiceServer.Login),
		unary("Refresh", AccountServiceServer.Refresh),
		unary("GetProfile", AccountServiceServer.GetProfile),
		unary("Rename", AccountServiceServer.Rename),
		unary("ChangePassword", AccountServiceServer.ChangePassword),
		unary("DeleteAccount", AccountServiceServer.DeleteAccount),
		unary("GetCollection", AccountServiceServer.GetCollection),
		unary("SellCard", AccountServiceServer.SellCard),
		unary("AddCards", AccountServiceServer.AddCards),
		unary("CheckBoosterSlots", AccountServiceServer.CheckBoosterSlots),
		unary("UseBooster", AccountServiceServer.UseBooster),
		unary("BuyBooster", AccountServiceServer.BuyBooster),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gacha/v1/account.json",
}

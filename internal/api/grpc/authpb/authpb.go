// Package authpb declares the NovelNest gRPC services. Messages are
// google.protobuf.Struct values so clients can call them without generated
// stubs.
package authpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	AuthServiceName    = "novelnest.v1.Auth"
	AccountServiceName = "novelnest.v1.Account"

	Auth_RequestCode_FullMethodName       = "/" + AuthServiceName + "/RequestCode"
	Auth_VerifyAndRegister_FullMethodName = "/" + AuthServiceName + "/VerifyAndRegister"
	Auth_Login_FullMethodName             = "/" + AuthServiceName + "/Login"
	Auth_RefreshToken_FullMethodName      = "/" + AuthServiceName + "/RefreshToken"
	Auth_RevokeToken_FullMethodName       = "/" + AuthServiceName + "/RevokeToken"
	Account_Me_FullMethodName             = "/" + AccountServiceName + "/Me"
	Account_LogoutAll_FullMethodName      = "/" + AccountServiceName + "/LogoutAll"
)

// AuthServer is the public registration and login service.
type AuthServer interface {
	RequestCode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VerifyAndRegister(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RevokeToken(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// AccountServer serves authenticated callers.
type AccountServer interface {
	Me(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	LogoutAll(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&Auth_ServiceDesc, srv)
}

func RegisterAccountServer(s grpc.ServiceRegistrar, srv AccountServer) {
	s.RegisterService(&Account_ServiceDesc, srv)
}

var Auth_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RequestCode",
			Handler: unary(Auth_RequestCode_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (any, error) {
				return srv.(AuthServer).RequestCode(ctx, in)
			}),
		},
		{
			MethodName: "VerifyAndRegister",
			Handler: unary(Auth_VerifyAndRegister_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (any, error) {
				return srv.(AuthServer).VerifyAndRegister(ctx, in)
			}),
		},
		{
			MethodName: "Login",
			Handler: unary(Auth_Login_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (any, error) {
				return srv.(AuthServer).Login(ctx, in)
			}),
		},
		{
			MethodName: "RefreshToken",
			Handler: unary(Auth_RefreshToken_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (any, error) {
				return srv.(AuthServer).RefreshToken(ctx, in)
			}),
		},
		{
			MethodName: "RevokeToken",
			Handler: unary(Auth_RevokeToken_FullMethodName, func(srv any, ctx context.Context, in *structpb.Struct) (any, error) {
				return srv.(AuthServer).RevokeToken(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

var Account_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Me",
			Handler: unary(Account_Me_FullMethodName, func(srv any, ctx context.Context, in *emptypb.Empty) (any, error) {
				return srv.(AccountServer).Me(ctx, in)
			}),
		},
		{
			MethodName: "LogoutAll",
			Handler: unary(Account_LogoutAll_FullMethodName, func(srv any, ctx context.Context, in *emptypb.Empty) (any, error) {
				return srv.(AccountServer).LogoutAll(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// unary adapts a typed call to grpc.MethodHandler, running interceptors
// the same way generated code does.
func unary[Req any](fullMethod string, call func(srv any, ctx context.Context, in *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthClient calls novelnest.v1.Auth.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func (c *AuthClient) RequestCode(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, Auth_RequestCode_FullMethodName, in, opts)
}

func (c *AuthClient) VerifyAndRegister(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, Auth_VerifyAndRegister_FullMethodName, in, opts)
}

func (c *AuthClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, Auth_Login_FullMethodName, in, opts)
}

func (c *AuthClient) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, Auth_RefreshToken_FullMethodName, in, opts)
}

func (c *AuthClient) RevokeToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, Auth_RevokeToken_FullMethodName, in, opts)
}

// AccountClient calls novelnest.v1.Account.
type AccountClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountClient(cc grpc.ClientConnInterface) *AccountClient {
	return &AccountClient{cc: cc}
}

func (c *AccountClient) Me(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, Account_Me_FullMethodName, in, opts)
}

func (c *AccountClient) LogoutAll(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, Account_LogoutAll_FullMethodName, in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

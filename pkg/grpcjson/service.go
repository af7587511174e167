package grpcjson

import (
	"context"

	"google.golang.org/grpc"
)

// Unary builds the method descriptor for a typed unary handler. fn is
// normally a method expression such as (CatalogServer).GetItem.
func Unary[S, Req, Resp any](service, method string, fn func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(srv.(S), ctx, req.(*Req))
			})
		},
	}
}

// Invoke calls a unary method with the JSON codec.
func Invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append(opts, grpc.CallContentSubtype(Name))
	if err := cc.Invoke(ctx, "/"+service+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

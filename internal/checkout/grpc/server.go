package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/bookverse/internal/checkout/app"
	"github.com/dwikikusuma/bookverse/internal/checkout/domain"
	"github.com/dwikikusuma/bookverse/internal/session"
	"github.com/dwikikusuma/bookverse/pkg/grpcjson"
)

const ServiceName = "bookverse.checkout.v1.CheckoutService"

type QuoteRequest struct {
	SessionID string `json:"session_id"`
}

type QuoteResponse struct {
	Quote domain.Quote `json:"quote"`
}

type CheckoutServer interface {
	Quote(context.Context, *QuoteRequest) (*QuoteResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CheckoutServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "Quote", CheckoutServer.Quote),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookverse/checkout/v1",
}

func Register(r grpc.ServiceRegistrar, srv CheckoutServer) {
	r.RegisterService(&ServiceDesc, srv)
}

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	if req.SessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	q, err := s.svc.Quote(ctx, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			return nil, status.Error(codes.NotFound, "session not found")
		case errors.Is(err, app.ErrEmptyCart):
			return nil, status.Error(codes.FailedPrecondition, "cart is empty")
		}
		return nil, status.Errorf(codes.Internal, "quote failed: %v", err)
	}

	return &QuoteResponse{Quote: q}, nil
}

type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Quote(ctx context.Context, in *QuoteRequest, opts ...grpc.CallOption) (*QuoteResponse, error) {
	return grpcjson.Invoke[QuoteResponse](ctx, c.cc, ServiceName, "Quote", in, opts...)
}

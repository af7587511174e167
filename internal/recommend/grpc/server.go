package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/bookverse/internal/recommend/app"
	"github.com/dwikikusuma/bookverse/internal/recommend/domain"
	"github.com/dwikikusuma/bookverse/pkg/grpcjson"
)

const ServiceName = "bookverse.recommend.v1.RecommendService"

// RecommendRequest with an empty username asks for the anonymous list.
type RecommendRequest struct {
	Username string `json:"username"`
}

type RecommendResponse struct {
	Items []domain.Scored `json:"items"`
}

type RecommendServer interface {
	Recommend(context.Context, *RecommendRequest) (*RecommendResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RecommendServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "Recommend", RecommendServer.Recommend),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookverse/recommend/v1",
}

func Register(r grpc.ServiceRegistrar, srv RecommendServer) {
	r.RegisterService(&ServiceDesc, srv)
}

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Recommend(ctx context.Context, req *RecommendRequest) (*RecommendResponse, error) {
	scored, err := s.svc.Ranked(ctx, req.Username)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, status.FromContextError(err).Err()
		}
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &RecommendResponse{Items: scored}, nil
}

type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Recommend(ctx context.Context, in *RecommendRequest, opts ...grpc.CallOption) (*RecommendResponse, error) {
	return grpcjson.Invoke[RecommendResponse](ctx, c.cc, ServiceName, "Recommend", in, opts...)
}

package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/bookverse/internal/catalog/app"
	"github.com/dwikikusuma/bookverse/internal/catalog/domain"
	"github.com/dwikikusuma/bookverse/pkg/grpcjson"
)

const ServiceName = "bookverse.catalog.v1.CatalogService"

type ListItemsRequest struct {
	Query string `json:"query"`
	Limit int32  `json:"limit"`
}

type ListItemsResponse struct {
	Items []domain.Item `json:"items"`
}

type GetItemRequest struct {
	ID string `json:"id"`
}

type GetItemResponse struct {
	Item domain.Item `json:"item"`
}

type CatalogServer interface {
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	GetItem(context.Context, *GetItemRequest) (*GetItemResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "ListItems", CatalogServer.ListItems),
		grpcjson.Unary(ServiceName, "GetItem", CatalogServer.GetItem),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookverse/catalog/v1",
}

func Register(r grpc.ServiceRegistrar, srv CatalogServer) {
	r.RegisterService(&ServiceDesc, srv)
}

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) GetItem(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	it, err := s.svc.GetItem(ctx, req.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &GetItemResponse{Item: it}, nil
}

func (s *Server) ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	items, err := s.svc.ListItems(ctx, req.Query, int(req.Limit))
	if err != nil {
		return nil, mapErr(err)
	}
	return &ListItemsResponse{Items: items}, nil
}

// Client is a thin caller for CatalogService over the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return grpcjson.Invoke[ListItemsResponse](ctx, c.cc, ServiceName, "ListItems", in, opts...)
}

func (c *Client) GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*GetItemResponse, error) {
	return grpcjson.Invoke[GetItemResponse](ctx, c.cc, ServiceName, "GetItem", in, opts...)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, app.ErrUpstreamUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

// Package grpcjson provides a gRPC codec that carries plain Go structs as
// JSON, so services can be exposed without generated protobuf stubs.
package grpcjson

import (
	"github.com/goccy/go-json"
	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype clients select with grpc.CallContentSubtype.
const Name = "json"

type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return Name
}

func init() {
	encoding.RegisterCodec(Codec{})
}

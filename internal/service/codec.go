// Package service exposes the ordering core over Connect RPC.
//
// The handlers use connect's custom-codec path with a plain JSON codec:
// request and response types are ordinary structs with json tags, no
// generated bindings. Procedures follow the /sofra.v1.<Service>/<Method>
// naming so clients address them the usual Connect way.
package service

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// jsonCodec marshals RPC messages with encoding/json. Registering it
// under the name "json" replaces connect's default protojson codec, so
// plain structs work on both ends.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}

// WithJSONCodec returns the codec option shared by every handler and
// client in this package.
func WithJSONCodec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

// newUnaryHandler builds a unary handler for one procedure with the
// JSON codec installed ahead of the caller's options.
func newUnaryHandler[Req, Res any](
	procedure string,
	fn func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) http.Handler {
	all := append([]connect.HandlerOption{WithJSONCodec()}, opts...)
	return connect.NewUnaryHandler(procedure, fn, all...)
}

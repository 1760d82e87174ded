// Package classloader implements §6.4's external class-loader boundary
// as a small gRPC service: Load hands a compiled class image to the
// loader and gets back the internal name to instantiate against,
// Resume hands back a suspended continuation's wire bytes and gets the
// resumed call's result.
//
// Grounded on funvibe-funxy's internal/evaluator/builtins_grpc.go,
// which already wires google.golang.org/grpc for the language's own
// grpcConnect/grpcServer builtins; classloader trims that down to a
// single hand-declared grpc.ServiceDesc (no protoc step) carrying
// google.golang.org/protobuf/types/known/wrapperspb messages, since the
// payloads here are opaque byte blobs and short strings rather than a
// user-defined proto schema.
package classloader

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "jactl.classloader.ClassLoader"

// Service is the host-side implementation a classloader.Server
// dispatches gRPC calls to.
type Service interface {
	// Load decodes a compiled class image (internal/classgen's
	// serialized Class, see §4.E) and returns the internal name future
	// `new` expressions should resolve against.
	Load(ctx context.Context, classImage []byte) (internalName string, err error)

	// Resume re-enters a suspended call given its checkpoint bytes
	// (internal/checkpoint's wire format, §6.5) and returns the
	// resumed call's result bytes.
	Resume(ctx context.Context, continuation []byte) (result []byte, err error)
}

// Server adapts a Service to grpc.ServiceDesc's raw handler shape.
type Server struct {
	svc Service
}

// NewServer wraps svc for registration via grpc.Server.RegisterService.
func NewServer(svc Service) *Server { return &Server{svc: svc} }

// Register attaches the classloader service to s.
func (srv *Server) Register(s *grpc.Server) {
	s.RegisterService(&serviceDesc, srv)
}

func (srv *Server) load(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	name, err := srv.svc.Load(ctx, in.GetValue())
	if err != nil {
		return nil, fmt.Errorf("classloader.Load: %w", err)
	}
	return wrapperspb.String(name), nil
}

func (srv *Server) resume(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	result, err := srv.svc.Resume(ctx, in.GetValue())
	if err != nil {
		return nil, fmt.Errorf("classloader.Resume: %w", err)
	}
	return wrapperspb.Bytes(result), nil
}

func loadHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(*Server)
	if interceptor == nil {
		return s.load(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/" + serviceName + "/Load"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.load(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func resumeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(*Server)
	if interceptor == nil {
		return s.resume(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/" + serviceName + "/Resume"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.resume(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Load", Handler: loadHandler},
		{MethodName: "Resume", Handler: resumeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "classloader.proto",
}

// Client calls a classloader.Server over an established connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc (typically from grpc.NewClient).
func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

// Load calls the remote Load method.
func (c *Client) Load(ctx context.Context, classImage []byte) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Load", wrapperspb.Bytes(classImage), out); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// Resume calls the remote Resume method.
func (c *Client) Resume(ctx context.Context, continuation []byte) ([]byte, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Resume", wrapperspb.Bytes(continuation), out); err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}

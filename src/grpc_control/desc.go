package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are well-known protobuf types (Struct, Empty), so the service is
// described by hand and needs no generated code.

const ServiceName = "seasonality.DashboardControl"

// DashboardControlServer is the server API for the DashboardControl service.
type DashboardControlServer interface {
	ChooseAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClickYear(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetTimeRange(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Submit(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetView(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterDashboardControlServer(s grpc.ServiceRegistrar, srv DashboardControlServer) {
	s.RegisterService(&DashboardControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func structHandler(call func(DashboardControlServer, context.Context, *structpb.Struct) (*structpb.Struct, error), method string) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DashboardControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(DashboardControlServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func emptyHandler(call func(DashboardControlServer, context.Context, *emptypb.Empty) (*structpb.Struct, error), method string) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DashboardControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(DashboardControlServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// -----------------------------------------------------------------------------

var DashboardControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ChooseAsset", Handler: structHandler(DashboardControlServer.ChooseAsset, "ChooseAsset")},
		{MethodName: "ClickYear", Handler: structHandler(DashboardControlServer.ClickYear, "ClickYear")},
		{MethodName: "SetTimeRange", Handler: structHandler(DashboardControlServer.SetTimeRange, "SetTimeRange")},
		{MethodName: "Submit", Handler: emptyHandler(DashboardControlServer.Submit, "Submit")},
		{MethodName: "GetView", Handler: emptyHandler(DashboardControlServer.GetView, "GetView")},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "seasonality/control.proto",
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

type DashboardControlClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardControlClient(cc grpc.ClientConnInterface) *DashboardControlClient {
	return &DashboardControlClient{cc: cc}
}

func (c *DashboardControlClient) invoke(ctx context.Context, method string, in interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) ChooseAsset(ctx context.Context, ticker string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"ticker": ticker})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "ChooseAsset", in, opts...)
}

func (c *DashboardControlClient) ClickYear(ctx context.Context, year int, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"year": year})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "ClickYear", in, opts...)
}

func (c *DashboardControlClient) SetTimeRange(ctx context.Context, preset string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"time_range": preset})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "SetTimeRange", in, opts...)
}

func (c *DashboardControlClient) Submit(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Submit", &emptypb.Empty{}, opts...)
}

func (c *DashboardControlClient) GetView(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetView", &emptypb.Empty{}, opts...)
}

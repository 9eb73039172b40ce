package scheduling

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	MapService_GetAllMoveData_FullMethodName                  = "/scheduling.MapService/GetAllMoveData"
	MapService_GetAllNodeData_FullMethodName                  = "/scheduling.MapService/GetAllNodeData"
	MapService_GetAllParameterData_FullMethodName             = "/scheduling.MapService/GetAllParameterData"
	MapService_GetTrajectory_FullMethodName                   = "/scheduling.MapService/GetTrajectory"
	MapService_GetOccupyingMandateProgressData_FullMethodName = "/scheduling.MapService/GetOccupyingMandateProgressData"
	MapService_SetOccupyingMandate_FullMethodName             = "/scheduling.MapService/SetOccupyingMandate"
	MapService_ClearOccupyingMandate_FullMethodName           = "/scheduling.MapService/ClearOccupyingMandate"
	MapService_Subscribe_FullMethodName                       = "/scheduling.MapService/Subscribe"
)

// MapServiceClient is the client API for MapService.
type MapServiceClient interface {
	GetAllMoveData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllMoveDataResult, error)
	GetAllNodeData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllNodeDataResult, error)
	GetAllParameterData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllParameterDataResult, error)
	GetTrajectory(ctx context.Context, in *GetTrajectoryRequest, opts ...grpc.CallOption) (*GetTrajectoryResult, error)
	GetOccupyingMandateProgressData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetOccupyingMandateProgressDataResult, error)
	SetOccupyingMandate(ctx context.Context, in *SetOccupyingMandateRequest, opts ...grpc.CallOption) (*GenericResult, error)
	ClearOccupyingMandate(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GenericResult, error)
	Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[OccupyingMandateProgressDto], error)
}

type mapServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMapServiceClient(cc grpc.ClientConnInterface) MapServiceClient {
	return &mapServiceClient{cc}
}

func (c *mapServiceClient) GetAllMoveData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllMoveDataResult, error) {
	return invoke[emptypb.Empty, GetAllMoveDataResult](ctx, c.cc, MapService_GetAllMoveData_FullMethodName, in, opts)
}

func (c *mapServiceClient) GetAllNodeData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllNodeDataResult, error) {
	return invoke[emptypb.Empty, GetAllNodeDataResult](ctx, c.cc, MapService_GetAllNodeData_FullMethodName, in, opts)
}

func (c *mapServiceClient) GetAllParameterData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllParameterDataResult, error) {
	return invoke[emptypb.Empty, GetAllParameterDataResult](ctx, c.cc, MapService_GetAllParameterData_FullMethodName, in, opts)
}

func (c *mapServiceClient) GetTrajectory(ctx context.Context, in *GetTrajectoryRequest, opts ...grpc.CallOption) (*GetTrajectoryResult, error) {
	return invoke[GetTrajectoryRequest, GetTrajectoryResult](ctx, c.cc, MapService_GetTrajectory_FullMethodName, in, opts)
}

func (c *mapServiceClient) GetOccupyingMandateProgressData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetOccupyingMandateProgressDataResult, error) {
	return invoke[emptypb.Empty, GetOccupyingMandateProgressDataResult](ctx, c.cc, MapService_GetOccupyingMandateProgressData_FullMethodName, in, opts)
}

func (c *mapServiceClient) SetOccupyingMandate(ctx context.Context, in *SetOccupyingMandateRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[SetOccupyingMandateRequest, GenericResult](ctx, c.cc, MapService_SetOccupyingMandate_FullMethodName, in, opts)
}

func (c *mapServiceClient) ClearOccupyingMandate(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[emptypb.Empty, GenericResult](ctx, c.cc, MapService_ClearOccupyingMandate_FullMethodName, in, opts)
}

func (c *mapServiceClient) Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[OccupyingMandateProgressDto], error) {
	return openServerStream[OccupyingMandateProgressDto](ctx, c.cc, &MapService_ServiceDesc.Streams[0], MapService_Subscribe_FullMethodName, in, opts)
}

// MapServiceServer is the server API for MapService.
type MapServiceServer interface {
	GetAllMoveData(context.Context, *emptypb.Empty) (*GetAllMoveDataResult, error)
	GetAllNodeData(context.Context, *emptypb.Empty) (*GetAllNodeDataResult, error)
	GetAllParameterData(context.Context, *emptypb.Empty) (*GetAllParameterDataResult, error)
	GetTrajectory(context.Context, *GetTrajectoryRequest) (*GetTrajectoryResult, error)
	GetOccupyingMandateProgressData(context.Context, *emptypb.Empty) (*GetOccupyingMandateProgressDataResult, error)
	SetOccupyingMandate(context.Context, *SetOccupyingMandateRequest) (*GenericResult, error)
	ClearOccupyingMandate(context.Context, *emptypb.Empty) (*GenericResult, error)
	Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[OccupyingMandateProgressDto]) error
}

func RegisterMapServiceServer(s grpc.ServiceRegistrar, srv MapServiceServer) {
	s.RegisterService(&MapService_ServiceDesc, srv)
}

// MapService_ServiceDesc is the grpc.ServiceDesc for MapService service.
var MapService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.MapService",
	HandlerType: (*MapServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAllMoveData", Handler: unaryHandler(MapService_GetAllMoveData_FullMethodName, MapServiceServer.GetAllMoveData)},
		{MethodName: "GetAllNodeData", Handler: unaryHandler(MapService_GetAllNodeData_FullMethodName, MapServiceServer.GetAllNodeData)},
		{MethodName: "GetAllParameterData", Handler: unaryHandler(MapService_GetAllParameterData_FullMethodName, MapServiceServer.GetAllParameterData)},
		{MethodName: "GetTrajectory", Handler: unaryHandler(MapService_GetTrajectory_FullMethodName, MapServiceServer.GetTrajectory)},
		{MethodName: "GetOccupyingMandateProgressData", Handler: unaryHandler(MapService_GetOccupyingMandateProgressData_FullMethodName, MapServiceServer.GetOccupyingMandateProgressData)},
		{MethodName: "SetOccupyingMandate", Handler: unaryHandler(MapService_SetOccupyingMandate_FullMethodName, MapServiceServer.SetOccupyingMandate)},
		{MethodName: "ClearOccupyingMandate", Handler: unaryHandler(MapService_ClearOccupyingMandate_FullMethodName, MapServiceServer.ClearOccupyingMandate)},
	},
	Streams: []grpc.StreamDesc{
		subscribeStreamDesc(MapServiceServer.Subscribe),
	},
}

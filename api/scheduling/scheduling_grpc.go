package scheduling

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ---------------------------------------------------------------------------
// SchedulingService
// ---------------------------------------------------------------------------

const SchedulingService_Subscribe_FullMethodName = "/scheduling.SchedulingService/Subscribe"

// SchedulingServiceClient is the client API for SchedulingService.
type SchedulingServiceClient interface {
	Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[SchedulerStateDto], error)
}

type schedulingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSchedulingServiceClient(cc grpc.ClientConnInterface) SchedulingServiceClient {
	return &schedulingServiceClient{cc}
}

func (c *schedulingServiceClient) Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[SchedulerStateDto], error) {
	return openServerStream[SchedulerStateDto](ctx, c.cc, &SchedulingService_ServiceDesc.Streams[0], SchedulingService_Subscribe_FullMethodName, in, opts)
}

// SchedulingServiceServer is the server API for SchedulingService.
type SchedulingServiceServer interface {
	Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[SchedulerStateDto]) error
}

// UnimplementedSchedulingServiceServer can be embedded to have forward compatible implementations.
type UnimplementedSchedulingServiceServer struct{}

func (UnimplementedSchedulingServiceServer) Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[SchedulerStateDto]) error {
	return status.Error(codes.Unimplemented, "method Subscribe not implemented")
}

func RegisterSchedulingServiceServer(s grpc.ServiceRegistrar, srv SchedulingServiceServer) {
	s.RegisterService(&SchedulingService_ServiceDesc, srv)
}

// SchedulingService_ServiceDesc is the grpc.ServiceDesc for SchedulingService service.
var SchedulingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.SchedulingService",
	HandlerType: (*SchedulingServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		subscribeStreamDesc(SchedulingServiceServer.Subscribe),
	},
}

// ---------------------------------------------------------------------------
// ServicingService
// ---------------------------------------------------------------------------

const (
	ServicingService_GetOutstandingServiceRequests_FullMethodName = "/scheduling.ServicingService/GetOutstandingServiceRequests"
	ServicingService_SetServiceComplete_FullMethodName            = "/scheduling.ServicingService/SetServiceComplete"
	ServicingService_Subscribe_FullMethodName                     = "/scheduling.ServicingService/Subscribe"
)

// ServicingServiceClient is the client API for ServicingService.
type ServicingServiceClient interface {
	GetOutstandingServiceRequests(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetOutstandingServiceRequestsResult, error)
	SetServiceComplete(ctx context.Context, in *TaskRequest, opts ...grpc.CallOption) (*GenericResult, error)
	Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ServiceStateDto], error)
}

type servicingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewServicingServiceClient(cc grpc.ClientConnInterface) ServicingServiceClient {
	return &servicingServiceClient{cc}
}

func (c *servicingServiceClient) GetOutstandingServiceRequests(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetOutstandingServiceRequestsResult, error) {
	return invoke[emptypb.Empty, GetOutstandingServiceRequestsResult](ctx, c.cc, ServicingService_GetOutstandingServiceRequests_FullMethodName, in, opts)
}

func (c *servicingServiceClient) SetServiceComplete(ctx context.Context, in *TaskRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[TaskRequest, GenericResult](ctx, c.cc, ServicingService_SetServiceComplete_FullMethodName, in, opts)
}

func (c *servicingServiceClient) Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ServiceStateDto], error) {
	return openServerStream[ServiceStateDto](ctx, c.cc, &ServicingService_ServiceDesc.Streams[0], ServicingService_Subscribe_FullMethodName, in, opts)
}

// ServicingServiceServer is the server API for ServicingService.
type ServicingServiceServer interface {
	GetOutstandingServiceRequests(context.Context, *emptypb.Empty) (*GetOutstandingServiceRequestsResult, error)
	SetServiceComplete(context.Context, *TaskRequest) (*GenericResult, error)
	Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[ServiceStateDto]) error
}

func RegisterServicingServiceServer(s grpc.ServiceRegistrar, srv ServicingServiceServer) {
	s.RegisterService(&ServicingService_ServiceDesc, srv)
}

// ServicingService_ServiceDesc is the grpc.ServiceDesc for ServicingService service.
var ServicingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.ServicingService",
	HandlerType: (*ServicingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOutstandingServiceRequests", Handler: unaryHandler(ServicingService_GetOutstandingServiceRequests_FullMethodName, ServicingServiceServer.GetOutstandingServiceRequests)},
		{MethodName: "SetServiceComplete", Handler: unaryHandler(ServicingService_SetServiceComplete_FullMethodName, ServicingServiceServer.SetServiceComplete)},
	},
	Streams: []grpc.StreamDesc{
		subscribeStreamDesc(ServicingServiceServer.Subscribe),
	},
}

// ---------------------------------------------------------------------------
// VersionService
// ---------------------------------------------------------------------------

const (
	VersionService_GetSchedulerVersion_FullMethodName = "/scheduling.VersionService/GetSchedulerVersion"
	VersionService_GetPluginVersions_FullMethodName   = "/scheduling.VersionService/GetPluginVersions"
)

// VersionServiceClient is the client API for VersionService.
type VersionServiceClient interface {
	GetSchedulerVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetSchedulerVersionResult, error)
	GetPluginVersions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetPluginVersionsResult, error)
}

type versionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewVersionServiceClient(cc grpc.ClientConnInterface) VersionServiceClient {
	return &versionServiceClient{cc}
}

func (c *versionServiceClient) GetSchedulerVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetSchedulerVersionResult, error) {
	return invoke[emptypb.Empty, GetSchedulerVersionResult](ctx, c.cc, VersionService_GetSchedulerVersion_FullMethodName, in, opts)
}

func (c *versionServiceClient) GetPluginVersions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetPluginVersionsResult, error) {
	return invoke[emptypb.Empty, GetPluginVersionsResult](ctx, c.cc, VersionService_GetPluginVersions_FullMethodName, in, opts)
}

// VersionServiceServer is the server API for VersionService.
type VersionServiceServer interface {
	GetSchedulerVersion(context.Context, *emptypb.Empty) (*GetSchedulerVersionResult, error)
	GetPluginVersions(context.Context, *emptypb.Empty) (*GetPluginVersionsResult, error)
}

func RegisterVersionServiceServer(s grpc.ServiceRegistrar, srv VersionServiceServer) {
	s.RegisterService(&VersionService_ServiceDesc, srv)
}

// VersionService_ServiceDesc is the grpc.ServiceDesc for VersionService service.
var VersionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.VersionService",
	HandlerType: (*VersionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSchedulerVersion", Handler: unaryHandler(VersionService_GetSchedulerVersion_FullMethodName, VersionServiceServer.GetSchedulerVersion)},
		{MethodName: "GetPluginVersions", Handler: unaryHandler(VersionService_GetPluginVersions_FullMethodName, VersionServiceServer.GetPluginVersions)},
	},
}

// String formats the version as major.minor.patch
func (v SemVerDto) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseSemVer parses a major.minor.patch version string
func ParseSemVer(s string) (SemVerDto, error) {
	var v SemVerDto
	if _, err := fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch); err != nil {
		return SemVerDto{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

package scheduling

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	AgentService_GetAllAgentData_FullMethodName             = "/scheduling.AgentService/GetAllAgentData"
	AgentService_GetAllAgentsInLifetimeState_FullMethodName = "/scheduling.AgentService/GetAllAgentsInLifetimeState"
	AgentService_SetAgentLifetimeState_FullMethodName       = "/scheduling.AgentService/SetAgentLifetimeState"
	AgentService_Subscribe_FullMethodName                   = "/scheduling.AgentService/Subscribe"
)

// AgentServiceClient is the client API for AgentService.
type AgentServiceClient interface {
	GetAllAgentData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllAgentDataResult, error)
	GetAllAgentsInLifetimeState(ctx context.Context, in *GetAllAgentsInLifetimeStateRequest, opts ...grpc.CallOption) (*GetAllAgentDataResult, error)
	SetAgentLifetimeState(ctx context.Context, in *SetAgentLifetimeStateRequest, opts ...grpc.CallOption) (*GenericResult, error)
	Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[AgentDto], error)
}

type agentServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAgentServiceClient(cc grpc.ClientConnInterface) AgentServiceClient {
	return &agentServiceClient{cc}
}

func (c *agentServiceClient) GetAllAgentData(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GetAllAgentDataResult, error) {
	return invoke[emptypb.Empty, GetAllAgentDataResult](ctx, c.cc, AgentService_GetAllAgentData_FullMethodName, in, opts)
}

func (c *agentServiceClient) GetAllAgentsInLifetimeState(ctx context.Context, in *GetAllAgentsInLifetimeStateRequest, opts ...grpc.CallOption) (*GetAllAgentDataResult, error) {
	return invoke[GetAllAgentsInLifetimeStateRequest, GetAllAgentDataResult](ctx, c.cc, AgentService_GetAllAgentsInLifetimeState_FullMethodName, in, opts)
}

func (c *agentServiceClient) SetAgentLifetimeState(ctx context.Context, in *SetAgentLifetimeStateRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	return invoke[SetAgentLifetimeStateRequest, GenericResult](ctx, c.cc, AgentService_SetAgentLifetimeState_FullMethodName, in, opts)
}

func (c *agentServiceClient) Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[AgentDto], error) {
	return openServerStream[AgentDto](ctx, c.cc, &AgentService_ServiceDesc.Streams[0], AgentService_Subscribe_FullMethodName, in, opts)
}

// AgentServiceServer is the server API for AgentService.
type AgentServiceServer interface {
	GetAllAgentData(context.Context, *emptypb.Empty) (*GetAllAgentDataResult, error)
	GetAllAgentsInLifetimeState(context.Context, *GetAllAgentsInLifetimeStateRequest) (*GetAllAgentDataResult, error)
	SetAgentLifetimeState(context.Context, *SetAgentLifetimeStateRequest) (*GenericResult, error)
	Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[AgentDto]) error
}

// UnimplementedAgentServiceServer can be embedded to have forward compatible implementations.
type UnimplementedAgentServiceServer struct{}

func (UnimplementedAgentServiceServer) GetAllAgentData(context.Context, *emptypb.Empty) (*GetAllAgentDataResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAllAgentData not implemented")
}
func (UnimplementedAgentServiceServer) GetAllAgentsInLifetimeState(context.Context, *GetAllAgentsInLifetimeStateRequest) (*GetAllAgentDataResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAllAgentsInLifetimeState not implemented")
}
func (UnimplementedAgentServiceServer) SetAgentLifetimeState(context.Context, *SetAgentLifetimeStateRequest) (*GenericResult, error) {
	return nil, status.Error(codes.Unimplemented, "method SetAgentLifetimeState not implemented")
}
func (UnimplementedAgentServiceServer) Subscribe(*emptypb.Empty, grpc.ServerStreamingServer[AgentDto]) error {
	return status.Error(codes.Unimplemented, "method Subscribe not implemented")
}

func RegisterAgentServiceServer(s grpc.ServiceRegistrar, srv AgentServiceServer) {
	s.RegisterService(&AgentService_ServiceDesc, srv)
}

// AgentService_ServiceDesc is the grpc.ServiceDesc for AgentService service.
var AgentService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scheduling.AgentService",
	HandlerType: (*AgentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetAllAgentData",
			Handler:    unaryHandler(AgentService_GetAllAgentData_FullMethodName, AgentServiceServer.GetAllAgentData),
		},
		{
			MethodName: "GetAllAgentsInLifetimeState",
			Handler:    unaryHandler(AgentService_GetAllAgentsInLifetimeState_FullMethodName, AgentServiceServer.GetAllAgentsInLifetimeState),
		},
		{
			MethodName: "SetAgentLifetimeState",
			Handler:    unaryHandler(AgentService_SetAgentLifetimeState_FullMethodName, AgentServiceServer.SetAgentLifetimeState),
		},
	},
	Streams: []grpc.StreamDesc{
		subscribeStreamDesc(AgentServiceServer.Subscribe),
	},
}

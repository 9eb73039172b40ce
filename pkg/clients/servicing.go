package clients

import (
	"context"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServicingClient handles service requests raised by servicing tasks
type ServicingClient struct {
	base
	*feed[scheduling.ServiceStateDto]

	api scheduling.ServicingServiceClient
}

// NewServicingClient creates a ServicingClient on an existing connection
func NewServicingClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *ServicingClient {
	c := &ServicingClient{
		base: newBase("servicing", settings, logger),
		api:  scheduling.NewServicingServiceClient(cc),
	}
	c.feed = newFeed[scheduling.ServiceStateDto]("servicing", &c.base, c.api.Subscribe, nil)
	return c
}

// GetOutstandingServiceRequests returns the service requests not yet completed
func (c *ServicingClient) GetOutstandingServiceRequests(ctx context.Context) ([]scheduling.ServiceStateDto, error) {
	res, err := call(ctx, &c.base, "GetOutstandingServiceRequests", func(ctx context.Context) (*scheduling.GetOutstandingServiceRequestsResult, error) {
		return c.api.GetOutstandingServiceRequests(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return res.ServiceStates, nil
}

// SetServiceComplete marks the service of a task as done so the agent moves on
func (c *ServicingClient) SetServiceComplete(ctx context.Context, taskID int32) error {
	_, err := call(ctx, &c.base, "SetServiceComplete", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.SetServiceComplete(ctx, &scheduling.TaskRequest{TaskID: taskID})
	}, "task_id", taskID)
	return err
}

// OnServiceRequest registers fn for every pushed service state
func (c *ServicingClient) OnServiceRequest(fn func(*scheduling.ServiceStateDto)) (remove func()) {
	return c.observe(fn)
}

// Close stops the update stream and releases an owned connection
func (c *ServicingClient) Close() error {
	c.dispose()
	return c.closeConn()
}

// VersionClient reads scheduler and plugin versions
type VersionClient struct {
	base

	api scheduling.VersionServiceClient
}

// NewVersionClient creates a VersionClient on an existing connection
func NewVersionClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *VersionClient {
	return &VersionClient{
		base: newBase("version", settings, logger),
		api:  scheduling.NewVersionServiceClient(cc),
	}
}

// GetSchedulerVersion returns the version of the scheduler
func (c *VersionClient) GetSchedulerVersion(ctx context.Context) (scheduling.SemVerDto, error) {
	res, err := call(ctx, &c.base, "GetSchedulerVersion", func(ctx context.Context) (*scheduling.GetSchedulerVersionResult, error) {
		return c.api.GetSchedulerVersion(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return scheduling.SemVerDto{}, err
	}
	return res.Version, nil
}

// GetPluginVersions returns the versions of the loaded scheduler plugins
func (c *VersionClient) GetPluginVersions(ctx context.Context) ([]scheduling.PluginDto, error) {
	res, err := call(ctx, &c.base, "GetPluginVersions", func(ctx context.Context) (*scheduling.GetPluginVersionsResult, error) {
		return c.api.GetPluginVersions(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return res.Plugins, nil
}

// Close releases an owned connection
func (c *VersionClient) Close() error {
	return c.closeConn()
}

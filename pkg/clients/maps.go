package clients

import (
	"context"
	"time"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// MapClient reads the map and manages the occupying mandate
type MapClient struct {
	base
	*feed[scheduling.OccupyingMandateProgressDto]

	api scheduling.MapServiceClient
}

// NewMapClient creates a MapClient on an existing connection
func NewMapClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *MapClient {
	c := &MapClient{
		base: newBase("map", settings, logger),
		api:  scheduling.NewMapServiceClient(cc),
	}
	c.feed = newFeed[scheduling.OccupyingMandateProgressDto]("map", &c.base, c.api.Subscribe, nil)
	return c
}

// GetAllMoves returns every move of the map
func (c *MapClient) GetAllMoves(ctx context.Context) ([]scheduling.MoveDto, error) {
	res, err := call(ctx, &c.base, "GetAllMoves", func(ctx context.Context) (*scheduling.GetAllMoveDataResult, error) {
		return c.api.GetAllMoveData(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return res.Moves, nil
}

// GetAllNodes returns every node of the map
func (c *MapClient) GetAllNodes(ctx context.Context) ([]scheduling.NodeDto, error) {
	res, err := call(ctx, &c.base, "GetAllNodes", func(ctx context.Context) (*scheduling.GetAllNodeDataResult, error) {
		return c.api.GetAllNodeData(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return res.Nodes, nil
}

// GetAllParameters returns every map parameter
func (c *MapClient) GetAllParameters(ctx context.Context) ([]scheduling.ParameterDto, error) {
	res, err := call(ctx, &c.base, "GetAllParameters", func(ctx context.Context) (*scheduling.GetAllParameterDataResult, error) {
		return c.api.GetAllParameterData(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return res.Parameters, nil
}

// GetTrajectory returns the waypoints of one move
func (c *MapClient) GetTrajectory(ctx context.Context, moveID int32) ([]scheduling.WaypointDto, error) {
	res, err := call(ctx, &c.base, "GetTrajectory", func(ctx context.Context) (*scheduling.GetTrajectoryResult, error) {
		return c.api.GetTrajectory(ctx, &scheduling.GetTrajectoryRequest{MoveID: moveID})
	}, "move_id", moveID)
	if err != nil {
		return nil, err
	}
	return res.Waypoints, nil
}

// GetOccupyingMandateProgress asks the scheduler for the current mandate progress
func (c *MapClient) GetOccupyingMandateProgress(ctx context.Context) (*scheduling.OccupyingMandateProgressDto, error) {
	res, err := call(ctx, &c.base, "GetOccupyingMandateProgress", func(ctx context.Context) (*scheduling.GetOccupyingMandateProgressDataResult, error) {
		return c.api.GetOccupyingMandateProgressData(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return res.OccupyingMandateProgress, nil
}

// SetOccupyingMandate asks the fleet to clear and hold the given map items.
// The mandate lapses after timeout unless it is renewed.
func (c *MapClient) SetOccupyingMandate(ctx context.Context, mapItemIDs []int32, timeout time.Duration) error {
	_, err := call(ctx, &c.base, "SetOccupyingMandate", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.SetOccupyingMandate(ctx, &scheduling.SetOccupyingMandateRequest{
			MapItemIDs: mapItemIDs,
			TimeoutMs:  timeout.Milliseconds(),
		})
	}, "map_items", mapItemIDs, "timeout", timeout)
	return err
}

// ClearOccupyingMandate releases the current mandate
func (c *MapClient) ClearOccupyingMandate(ctx context.Context) error {
	_, err := call(ctx, &c.base, "ClearOccupyingMandate", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.ClearOccupyingMandate(ctx, &emptypb.Empty{})
	})
	return err
}

// OnOccupyingMandateProgressUpdated registers fn for every pushed mandate update
func (c *MapClient) OnOccupyingMandateProgressUpdated(fn func(*scheduling.OccupyingMandateProgressDto)) (remove func()) {
	return c.observe(fn)
}

// OccupyingMandateProgress returns the last pushed mandate progress
func (c *MapClient) OccupyingMandateProgress() (*scheduling.OccupyingMandateProgressDto, bool) {
	return c.last()
}

// Close stops the update stream and releases an owned connection
func (c *MapClient) Close() error {
	c.dispose()
	return c.closeConn()
}

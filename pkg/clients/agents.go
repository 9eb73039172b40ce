package clients

import (
	"context"
	"sort"
	"sync"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AgentClient queries and changes agents and follows their updates
type AgentClient struct {
	base
	*feed[scheduling.AgentDto]

	api scheduling.AgentServiceClient

	mu     sync.RWMutex
	agents map[int32]scheduling.AgentDto
}

// NewAgentClient creates an AgentClient on an existing connection
func NewAgentClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *AgentClient {
	c := &AgentClient{
		base:   newBase("agents", settings, logger),
		api:    scheduling.NewAgentServiceClient(cc),
		agents: make(map[int32]scheduling.AgentDto),
	}
	c.feed = newFeed[scheduling.AgentDto]("agents", &c.base, c.api.Subscribe, c.update)
	return c
}

func (c *AgentClient) update(agent *scheduling.AgentDto) {
	c.mu.Lock()
	c.agents[agent.AgentID] = *agent
	c.mu.Unlock()
}

// GetAllAgents returns every agent known to the scheduler
func (c *AgentClient) GetAllAgents(ctx context.Context) ([]scheduling.AgentDto, error) {
	res, err := call(ctx, &c.base, "GetAllAgents", func(ctx context.Context) (*scheduling.GetAllAgentDataResult, error) {
		return c.api.GetAllAgentData(ctx, &emptypb.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return res.Agents, nil
}

// GetAllAgentsInLifetimeState returns the agents in one lifetime state
func (c *AgentClient) GetAllAgentsInLifetimeState(ctx context.Context, state scheduling.AgentLifetimeState) ([]scheduling.AgentDto, error) {
	res, err := call(ctx, &c.base, "GetAllAgentsInLifetimeState", func(ctx context.Context) (*scheduling.GetAllAgentDataResult, error) {
		return c.api.GetAllAgentsInLifetimeState(ctx, &scheduling.GetAllAgentsInLifetimeStateRequest{AgentLifetimeState: state})
	}, "lifetime_state", state.String())
	if err != nil {
		return nil, err
	}
	return res.Agents, nil
}

// SetAgentLifetimeState moves an agent into service, out of service or excludes it
func (c *AgentClient) SetAgentLifetimeState(ctx context.Context, agentID int32, state scheduling.AgentLifetimeState) error {
	_, err := call(ctx, &c.base, "SetAgentLifetimeState", func(ctx context.Context) (*scheduling.GenericResult, error) {
		return c.api.SetAgentLifetimeState(ctx, &scheduling.SetAgentLifetimeStateRequest{
			AgentID:            agentID,
			AgentLifetimeState: state,
		})
	}, "agent_id", agentID, "lifetime_state", state.String())
	return err
}

// OnAgentUpdated registers fn for every pushed agent update
func (c *AgentClient) OnAgentUpdated(fn func(*scheduling.AgentDto)) (remove func()) {
	return c.observe(fn)
}

// Agent returns the last pushed state of one agent
func (c *AgentClient) Agent(id int32) (scheduling.AgentDto, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	agent, ok := c.agents[id]
	return agent, ok
}

// Agents returns the last pushed state of every agent, ordered by ID
func (c *AgentClient) Agents() []scheduling.AgentDto {
	c.mu.RLock()
	agents := make([]scheduling.AgentDto, 0, len(c.agents))
	for _, a := range c.agents {
		agents = append(agents, a)
	}
	c.mu.RUnlock()

	sort.Slice(agents, func(i, j int) bool { return agents[i].AgentID < agents[j].AgentID })
	return agents
}

// Close stops the update stream and releases an owned connection
func (c *AgentClient) Close() error {
	c.dispose()
	return c.closeConn()
}

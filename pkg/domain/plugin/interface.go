package plugin

import (
	"net/rpc"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/hashicorp/go-plugin"
)

// Reviewer is the interface that review plugins must implement.
type Reviewer interface {
	// Init hands the plugin its configuration before the first review
	Init(config map[string]string) error

	// Review runs one review and returns the raw result payload
	Review(req review.Request) (string, error)
}

// ReviewerPlugin is the implementation of plugin.Plugin so we can serve/consume this.
type ReviewerPlugin struct {
	Impl Reviewer
}

func (p *ReviewerPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &ReviewerRPCServer{Impl: p.Impl}, nil
}

func (p *ReviewerPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &ReviewerRPCClient{Client: c}, nil
}

// RPC Client/Server wrappers
type ReviewArgs struct {
	Request review.Request
}

// ReviewReply separates a review the plugin rejected (Failure) from a transport error.
type ReviewReply struct {
	Raw     string
	Failure string
}

type ReviewerRPCClient struct{ Client *rpc.Client }

func (g *ReviewerRPCClient) Init(config map[string]string) error {
	var resp interface{}
	return g.Client.Call("Plugin.Init", config, &resp)
}

func (g *ReviewerRPCClient) Review(req review.Request) (string, error) {
	var resp ReviewReply
	if err := g.Client.Call("Plugin.Review", &ReviewArgs{Request: req}, &resp); err != nil {
		return "", err
	}
	if resp.Failure != "" {
		return "", &review.BackendError{Reason: resp.Failure}
	}
	return resp.Raw, nil
}

type ReviewerRPCServer struct{ Impl Reviewer }

func (s *ReviewerRPCServer) Init(config map[string]string, resp *interface{}) error {
	return s.Impl.Init(config)
}

func (s *ReviewerRPCServer) Review(args *ReviewArgs, resp *ReviewReply) error {
	raw, err := s.Impl.Review(args.Request)
	if err != nil {
		resp.Failure = err.Error()
		return nil
	}
	resp.Raw = raw
	return nil
}

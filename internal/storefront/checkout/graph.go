package checkout

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// GraphConfig holds the collaborators the checkout graph calls out to.
type GraphConfig struct {
	Form  FormSubmitter
	Email EmailSender
	NewID func() string
	Now   nowFunc
}

// GraphBuilder handles the construction of the checkout graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[*attempt, model.Receipt]
}

// BuildGraph constructs and compiles the checkout graph:
// validate -> summarize -> submit_form -> (send_email) -> finalize.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[*attempt, model.Receipt], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Form == nil {
		return nil, fmt.Errorf("form submitter is nil")
	}
	if config.NewID == nil || config.Now == nil {
		return nil, fmt.Errorf("id and clock functions are required")
	}

	b := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[*attempt, model.Receipt](
			compose.WithGenLocalState(func(ctx context.Context) *runState {
				return &runState{}
			}),
		),
	}

	if err := b.addNodes(); err != nil {
		return nil, err
	}
	if err := b.addEdges(); err != nil {
		return nil, err
	}
	if err := b.addBranches(); err != nil {
		return nil, err
	}
	return b.compile(ctx)
}

func (b *GraphBuilder) addNodes() error {
	nodes := []struct {
		key    string
		lambda *compose.Lambda
	}{
		{NodeValidate, newValidateNode()},
		{NodeSummarize, newSummarizeNode(b.config.NewID)},
		{NodeSubmitForm, newSubmitFormNode(b.config.Form)},
		{NodeSendEmail, newSendEmailNode(b.config.Email)},
	}
	for _, n := range nodes {
		if err := b.graph.AddLambdaNode(n.key, n.lambda, compose.WithStatePreHandler(tracePreHandler(n.key))); err != nil {
			return fmt.Errorf("add node %s: %w", n.key, err)
		}
	}

	if err := b.graph.AddLambdaNode(NodeFinalize, newFinalizeNode(b.config.Now),
		compose.WithStatePreHandler(tracePreHandler(NodeFinalize)),
	); err != nil {
		return fmt.Errorf("add node %s: %w", NodeFinalize, err)
	}
	return nil
}

func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, NodeValidate},
		{NodeValidate, NodeSummarize},
		{NodeSummarize, NodeSubmitForm},
		{NodeSendEmail, NodeFinalize},
		{NodeFinalize, compose.END},
	}
	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

func (b *GraphBuilder) addBranches() error {
	emailBranch := compose.NewGraphBranch(
		newEmailCondition(b.config.Email),
		map[string]bool{
			NodeSendEmail: true,
			NodeFinalize:  true,
		},
	)
	if err := b.graph.AddBranch(NodeSubmitForm, emailBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding email branch")
		return fmt.Errorf("error adding email branch: %w", err)
	}
	return nil
}

func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*attempt, model.Receipt], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10), compose.WithGraphName("checkout"))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling checkout graph")
		return nil, fmt.Errorf("error compiling checkout graph: %w", err)
	}
	logx.Debug().Msg("Checkout graph compiled successfully")
	return runnable, nil
}

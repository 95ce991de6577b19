package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mpulaparthi/web-agent/pkg/agent/tools"
	"github.com/mpulaparthi/web-agent/pkg/config"
)

const (
	browseWebToolName = "browse_web"

	// FallbackResult is returned when the browsing task ends without a
	// final result.
	FallbackResult = "Task completed (no final result returned explicitly)."
)

// TaskExecutor runs a browsing task in a region.
type TaskExecutor interface {
	Execute(ctx context.Context, region, task string) (string, error)
}

// BrowseWebTool is the top-level agent's single tool: it hands a natural
// language task to the browsing sub-agent in a fresh remote session.
type BrowseWebTool struct {
	executor    TaskExecutor
	credentials *CredentialInjector
	region      string
}

// BrowseWebOption configures a BrowseWebTool.
type BrowseWebOption func(*BrowseWebTool)

// WithCredentials injects login credentials into matching tasks.
func WithCredentials(injector *CredentialInjector) BrowseWebOption {
	return func(t *BrowseWebTool) {
		t.credentials = injector
	}
}

// WithRegion sets the region sessions are leased in.
func WithRegion(region string) BrowseWebOption {
	return func(t *BrowseWebTool) {
		if region != "" {
			t.region = region
		}
	}
}

// NewBrowseWebTool creates the browse_web tool.
func NewBrowseWebTool(executor TaskExecutor, opts ...BrowseWebOption) *BrowseWebTool {
	t := &BrowseWebTool{
		executor: executor,
		region:   config.DefaultRegion,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the tool name.
func (t *BrowseWebTool) Name() string {
	return browseWebToolName
}

// Description returns the tool description.
func (t *BrowseWebTool) Description() string {
	return "Use a web browser to perform a task. The task should be a clear instruction of what to do on the web."
}

// Schema returns the tool's JSON schema.
func (t *BrowseWebTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"task": tools.StringProperty("A clear instruction of what to do on the web, including any URL to start from."),
		},
		[]string{"task"},
	)
}

// Execute runs the browsing task.
func (t *BrowseWebTool) Execute(ctx context.Context, arguments json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Task string `json:"task"`
	}
	if err := tools.DecodeArguments(arguments, &input); err != nil {
		return "", nil, fmt.Errorf("%s: invalid parameters: %w", browseWebToolName, err)
	}
	if strings.TrimSpace(input.Task) == "" {
		return "", nil, fmt.Errorf("%s: task is required", browseWebToolName)
	}

	browserLog.Infof("Browser Tool called with task: %s", input.Task)

	task := input.Task
	if t.credentials.Applies(task) {
		browserLog.Infof("Injecting Invesco Vision credentials into task context.")
		task = t.credentials.Inject(task)
	}

	result, err := t.executor.Execute(ctx, t.region, task)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", browseWebToolName, err)
	}

	metadata := map[string]interface{}{"region": t.region}
	if result == "" {
		metadata["fallback"] = true
		return FallbackResult, metadata, nil
	}
	return result, metadata, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *BrowseWebTool) IsLoopBreaking() bool {
	return false
}

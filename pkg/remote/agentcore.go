package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcore"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

const (
	// DefaultBrowserIdentifier is the AWS-managed AgentCore browser.
	DefaultBrowserIdentifier = "aws.browser.v1"

	// DefaultSessionTimeout is the remote session lifetime.
	DefaultSessionTimeout = 15 * time.Minute

	signingService = "bedrock-agentcore"
	userAgent      = "web-agent"
)

// emptyPayloadHash is the SHA-256 of an empty body.
var emptyPayloadHash = func() string {
	sum := sha256.Sum256(nil)
	return hex.EncodeToString(sum[:])
}()

// BrowserAPI abstracts the AgentCore operations used by [AgentCoreClient].
// The [bedrockagentcore.Client] type satisfies this interface.
type BrowserAPI interface {
	StartBrowserSession(ctx context.Context, params *bedrockagentcore.StartBrowserSessionInput, optFns ...func(*bedrockagentcore.Options)) (*bedrockagentcore.StartBrowserSessionOutput, error)
	StopBrowserSession(ctx context.Context, params *bedrockagentcore.StopBrowserSessionInput, optFns ...func(*bedrockagentcore.Options)) (*bedrockagentcore.StopBrowserSessionOutput, error)
}

// AgentCoreClient leases browsers from Amazon Bedrock AgentCore.
type AgentCoreClient struct {
	credentials    aws.CredentialsProvider
	browserID      string
	sessionTimeout time.Duration
	newAPI         func(region string) BrowserAPI
	signer         *v4.Signer
	now            func() time.Time

	mu   sync.Mutex
	apis map[string]BrowserAPI
}

// AgentCoreOption configures an AgentCoreClient.
type AgentCoreOption func(*AgentCoreClient)

// WithBrowserIdentifier selects the browser resource to start sessions on.
func WithBrowserIdentifier(id string) AgentCoreOption {
	return func(c *AgentCoreClient) {
		c.browserID = id
	}
}

// WithSessionTimeout sets the remote session lifetime.
func WithSessionTimeout(d time.Duration) AgentCoreOption {
	return func(c *AgentCoreClient) {
		c.sessionTimeout = d
	}
}

// WithAPIFactory replaces the per-region API constructor.
func WithAPIFactory(factory func(region string) BrowserAPI) AgentCoreOption {
	return func(c *AgentCoreClient) {
		c.newAPI = factory
	}
}

// WithClock overrides the time source used for expiry and signing.
func WithClock(now func() time.Time) AgentCoreOption {
	return func(c *AgentCoreClient) {
		c.now = now
	}
}

// NewAgentCoreClient creates a client that builds one AgentCore API client
// per region from cfg.
func NewAgentCoreClient(cfg aws.Config, opts ...AgentCoreOption) *AgentCoreClient {
	c := &AgentCoreClient{
		credentials:    cfg.Credentials,
		browserID:      DefaultBrowserIdentifier,
		sessionTimeout: DefaultSessionTimeout,
		signer:         v4.NewSigner(),
		now:            time.Now,
		apis:           make(map[string]BrowserAPI),
	}
	c.newAPI = func(region string) BrowserAPI {
		return bedrockagentcore.NewFromConfig(cfg, func(o *bedrockagentcore.Options) {
			o.Region = region
		})
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *AgentCoreClient) api(region string) BrowserAPI {
	c.mu.Lock()
	defer c.mu.Unlock()

	api, ok := c.apis[region]
	if !ok {
		api = c.newAPI(region)
		c.apis[region] = api
	}
	return api
}

// Open starts a browser session and signs the automation stream endpoint.
func (c *AgentCoreClient) Open(ctx context.Context, region string) (*SessionHandle, error) {
	token := uuid.New().String()
	out, err := c.api(region).StartBrowserSession(ctx, &bedrockagentcore.StartBrowserSessionInput{
		BrowserIdentifier:     aws.String(c.browserID),
		Name:                  aws.String("web-agent-" + token[:8]),
		SessionTimeoutSeconds: aws.Int32(int32(c.sessionTimeout / time.Second)),
		ClientToken:           aws.String(token),
	})
	if err != nil {
		return nil, describeError("start browser session", err)
	}

	handle := &SessionHandle{
		ID:        aws.ToString(out.SessionId),
		BrowserID: c.browserID,
		Region:    region,
		ExpiresAt: c.now().Add(c.sessionTimeout),
	}
	if out.BrowserIdentifier != nil {
		handle.BrowserID = aws.ToString(out.BrowserIdentifier)
	}
	if out.Streams != nil && out.Streams.AutomationStream != nil {
		handle.Endpoint = aws.ToString(out.Streams.AutomationStream.StreamEndpoint)
	}
	if handle.Endpoint == "" {
		handle.Endpoint = automationEndpoint(region, handle.BrowserID, handle.ID)
	}

	headers, err := c.signHeaders(ctx, handle.Endpoint, region)
	if err != nil {
		// Don't leak the session we just started
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultReleaseTimeout)
		defer cancel()
		if closeErr := c.Close(stopCtx, handle); closeErr != nil {
			remoteLog.Warnf("Failed to stop session %s after signing error: %v", handle.ID, closeErr)
		}
		return nil, err
	}
	handle.Headers = headers
	return handle, nil
}

// Close stops the session. A session the service no longer knows about is
// treated as already closed.
func (c *AgentCoreClient) Close(ctx context.Context, handle *SessionHandle) error {
	_, err := c.api(handle.Region).StopBrowserSession(ctx, &bedrockagentcore.StopBrowserSessionInput{
		BrowserIdentifier: aws.String(handle.BrowserID),
		SessionId:         aws.String(handle.ID),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return describeError("stop browser session", err)
	}
	return nil
}

// automationEndpoint builds the automation stream URL for a session.
func automationEndpoint(region, browserID, sessionID string) string {
	return fmt.Sprintf("wss://bedrock-agentcore.%s.amazonaws.com/browser-streams/%s/sessions/%s/automation",
		region, browserID, sessionID)
}

// signHeaders produces SigV4 headers for the WebSocket upgrade. The request
// is signed as an HTTPS GET on the same host and path.
func (c *AgentCoreClient) signHeaders(ctx context.Context, endpoint, region string) (http.Header, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid automation endpoint %q: %w", endpoint, err)
	}
	u.Scheme = strings.Replace(u.Scheme, "wss", "https", 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build signing request: %w", err)
	}

	if c.credentials == nil {
		return nil, fmt.Errorf("no AWS credentials configured")
	}
	creds, err := c.credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}

	if err := c.signer.SignHTTP(ctx, creds, req, emptyPayloadHash, signingService, region, c.now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to sign automation endpoint: %w", err)
	}

	headers := http.Header{}
	for _, name := range []string{"Authorization", "X-Amz-Date", "X-Amz-Security-Token"} {
		if v := req.Header.Get(name); v != "" {
			headers.Set(name, v)
		}
	}
	headers.Set("User-Agent", userAgent)
	return headers, nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}

// describeError wraps AWS API errors with their code for readable output.
func describeError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s: %s: %w", op, apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

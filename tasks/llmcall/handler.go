// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llmcall

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/hello-adam-martin/flowlang/connections/base"
	"github.com/hello-adam-martin/flowlang/flow"
)

// defaultModelID is the Bedrock model invoked when a step does not
// override it via inputs.model.
const defaultModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// CompletionRequest is the unified request shape this task accepts,
// mirroring the teacher's orchestrator/llm.CompletionRequest without
// importing that (deleted, product-specific) package.
type CompletionRequest struct {
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	Model        string  `json:"model,omitempty"`
}

// CompletionResponse is the unified response shape this task returns.
type CompletionResponse struct {
	Content      string     `json:"content"`
	Model        string     `json:"model"`
	Usage        UsageStats `json:"usage"`
	Latency      float64    `json:"latency_ms"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

// UsageStats tracks token usage for the invoked model.
type UsageStats struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// bedrockInvoker is the subset of *bedrockruntime.Client this task
// depends on, so tests can substitute a fake without a live AWS
// connection.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// secretResolver is the subset of *secretsmanager.Client this task
// depends on, for resolving a provider API-key override out of Secrets
// Manager rather than plaintext flow inputs.
type secretResolver interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Handler wraps the Bedrock and Secrets Manager clients into a
// flow.Handler closure.
type Handler struct {
	bedrock bedrockInvoker
	secrets secretResolver
}

// New builds a Handler using the default AWS credential chain.
func New(ctx context.Context) (*Handler, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &Handler{
		bedrock: bedrockruntime.NewFromConfig(cfg),
		secrets: secretsmanager.NewFromConfig(cfg),
	}, nil
}

// NewWithClients builds a Handler from already-constructed clients,
// used by tests and by callers who need a non-default aws.Config.
func NewWithClients(bedrock bedrockInvoker, secrets secretResolver) *Handler {
	return &Handler{bedrock: bedrock, secrets: secrets}
}

// Descriptor returns the flow.TaskDescriptor this handler registers
// under the name "llm_call". The optional "gateway" parameter is a
// connection (§4.7/§9): when a step wires one via `connection:`, the
// request is routed through it (e.g. an HTTP-backed model gateway)
// instead of calling Bedrock directly, demonstrating a non-database
// backend behind the same ConnectionAccessor capability every other
// task's connection argument uses.
func (h *Handler) Descriptor() flow.TaskDescriptor {
	return flow.TaskDescriptor{
		Name:        "llm_call",
		Description: "Invokes an Anthropic Claude model hosted on AWS Bedrock, or a wired model gateway connection",
		Implemented: true,
		Params: []flow.ParamSpec{
			{Name: "prompt", Required: true},
			{Name: "system_prompt", Required: false},
			{Name: "model", Required: false},
			{Name: "max_tokens", Required: false},
			{Name: "temperature", Required: false},
			{Name: "secret_name", Required: false},
			{Name: "gateway", Required: false, IsConnection: true},
		},
		Handler: h.handle,
	}
}

// anthropicMessagesRequest is the Bedrock Anthropic Messages API
// request body shape.
type anthropicMessagesRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Temperature      float64            `json:"temperature,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicMessagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (h *Handler) handle(ctx context.Context, fctx *flow.FlowContext, inputs map[string]interface{}) (map[string]interface{}, error) {
	req, err := parseRequest(inputs)
	if err != nil {
		return nil, err
	}

	if gw, ok := inputs["gateway"]; ok {
		conn, ok := gw.(base.Connection)
		if !ok {
			return nil, &flow.InputError{Field: "gateway", Message: "gateway connection has an unexpected type"}
		}
		return h.handleViaGateway(ctx, conn, req)
	}

	if secretName, ok := inputs["secret_name"].(string); ok && secretName != "" {
		if _, err := h.resolveSecret(ctx, secretName); err != nil {
			return nil, fmt.Errorf("resolving secret %q: %w", secretName, err)
		}
	}

	body := anthropicMessagesRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        req.MaxTokens,
		System:           req.SystemPrompt,
		Temperature:      req.Temperature,
		Messages:         []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding bedrock request: %w", err)
	}

	start := time.Now()
	out, err := h.bedrock.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(req.Model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("invoking bedrock model %q: %w", req.Model, err)
	}
	latency := time.Since(start)

	var parsed anthropicMessagesResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding bedrock response: %w", err)
	}

	var text string
	if len(parsed.Content) > 0 {
		text = parsed.Content[0].Text
	}

	resp := CompletionResponse{
		Content:      text,
		Model:        req.Model,
		FinishReason: parsed.StopReason,
		Latency:      float64(latency.Microseconds()) / 1000.0,
		Usage: UsageStats{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
	}
	return responseToMap(resp)
}

// handleViaGateway routes a completion request through a wired
// connection instead of calling Bedrock directly. The gateway is
// expected to accept a POST with the completion request as its JSON
// body and echo the model's reply as its response message; this is a
// thinner contract than Bedrock's native API, matching what the generic
// base.Connection.Execute shape (action/statement/parameters in,
// success/message out) can carry.
func (h *Handler) handleViaGateway(ctx context.Context, conn base.Connection, req CompletionRequest) (map[string]interface{}, error) {
	start := time.Now()
	result, err := conn.Execute(ctx, &base.Command{
		Action:    "POST",
		Statement: "/v1/messages",
		Parameters: map[string]interface{}{
			"model":         req.Model,
			"system_prompt": req.SystemPrompt,
			"max_tokens":    req.MaxTokens,
			"temperature":   req.Temperature,
			"prompt":        req.Prompt,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("invoking model gateway: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("model gateway request failed: %s", result.Message)
	}

	resp := CompletionResponse{
		Content: result.Message,
		Model:   req.Model,
		Latency: float64(time.Since(start).Microseconds()) / 1000.0,
	}
	return responseToMap(resp)
}

// responseToMap round-trips a CompletionResponse through JSON so its
// `json` tags (not Go field names) become the task's map[string]interface{}
// output, matching every other task handler's output shape.
func responseToMap(resp CompletionResponse) (map[string]interface{}, error) {
	encoded, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encoding task output: %w", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(encoded, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Handler) resolveSecret(ctx context.Context, name string) (string, error) {
	out, err := h.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", err
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %q has no string value", name)
	}
	return *out.SecretString, nil
}

func parseRequest(inputs map[string]interface{}) (CompletionRequest, error) {
	req := CompletionRequest{
		Model:     defaultModelID,
		MaxTokens: 1024,
	}

	prompt, ok := inputs["prompt"].(string)
	if !ok || prompt == "" {
		return req, &flow.InputError{Field: "prompt", Message: "llm_call requires a non-empty 'prompt' input"}
	}
	req.Prompt = prompt

	if v, ok := inputs["system_prompt"].(string); ok {
		req.SystemPrompt = v
	}
	if v, ok := inputs["model"].(string); ok && v != "" {
		req.Model = v
	}
	if v, ok := toInt(inputs["max_tokens"]); ok {
		req.MaxTokens = v
	}
	if v, ok := toFloat(inputs["temperature"]); ok {
		req.Temperature = v
	}
	return req, nil
}

func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	default:
		return 0, false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

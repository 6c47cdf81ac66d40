// Package gemini adapts the Google Gemini API to the model.Model interface.
// Tool declarations are converted to genai function declarations; since the
// Gemini API matches function responses by name rather than call id, call ids
// are synthesized locally.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/agentry-ai/agentry/model"
)

// Options configure the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int32
	APIKey          string
}

// Model wraps the Gemini API behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	gen    *genai.GenerativeModel
	opts   Options
}

var _ model.Model = (*Model)(nil)

func defaultOptions() Options {
	return Options{
		Model:           "gemini-1.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
}

// NewModel creates a Gemini model using the official client. The context is
// used for client construction only.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return newModel(client, opts), nil
}

// NewModelFromClient creates a Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newModel(client, opts)
}

func newModel(client *genai.Client, opts Options) *Model {
	gen := client.GenerativeModel(opts.Model)
	gen.SetTemperature(float32(opts.Temperature))
	gen.SetMaxOutputTokens(opts.MaxOutputTokens)
	return &Model{client: client, gen: gen, opts: opts}
}

// Close releases the underlying client connection.
func (m *Model) Close() error {
	return m.client.Close()
}

// Generate implements model.Model. The conversation up to the latest turn
// becomes chat history; the latest turn is sent as the new message.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	contents := buildContents(req.Messages)
	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini: request has no messages")
	}

	if req.Instructions != "" {
		m.gen.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.Instructions)},
		}
	} else {
		m.gen.SystemInstruction = nil
	}
	if len(req.Tools) > 0 {
		m.gen.Tools = buildTools(req.Tools)
	} else {
		m.gen.Tools = nil
	}

	chat := m.gen.StartChat()
	chat.History = contents[:len(contents)-1]
	last := contents[len(contents)-1]

	resp, err := chat.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini api error: no content returned")
	}
	candidate := resp.Candidates[0]

	msg := model.Message{Role: model.RoleAssistant}
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			text.WriteString(string(v))
		case genai.FunctionCall:
			args := json.RawMessage("{}")
			if v.Args != nil {
				if data, err := json.Marshal(v.Args); err == nil {
					args = data
				}
			}
			msg.ToolCalls = append(msg.ToolCalls, model.ToolCall{
				ID:   fmt.Sprintf("gemini-%s-%d", v.Name, len(msg.ToolCalls)),
				Name: v.Name,
				Args: args,
			})
		}
	}
	msg.Text = text.String()

	stop := model.FinishStop
	if len(msg.ToolCalls) > 0 {
		stop = model.FinishToolCalls
	} else if candidate.FinishReason == genai.FinishReasonMaxTokens {
		stop = model.FinishLength
	}

	out := &model.Response{Message: msg, StopReason: stop}
	if resp.UsageMetadata != nil {
		out.Usage = &model.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return out, nil
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}

// buildContents converts normalized messages to genai contents. Tool results
// travel as user-role contents carrying function responses, matching what the
// SDK itself produces when sending them.
func buildContents(msgs []model.Message) []*genai.Content {
	var contents []*genai.Content

	for _, msg := range msgs {
		switch msg.Role {
		case model.RoleUser:
			if msg.Text != "" {
				contents = append(contents, &genai.Content{
					Role:  "user",
					Parts: []genai.Part{genai.Text(msg.Text)},
				})
			}
		case model.RoleAssistant:
			var parts []genai.Part
			if msg.Text != "" {
				parts = append(parts, genai.Text(msg.Text))
			}
			for _, call := range msg.ToolCalls {
				var args map[string]any
				if len(call.Args) > 0 {
					if err := json.Unmarshal(call.Args, &args); err != nil {
						args = map[string]any{"raw": string(call.Args)}
					}
				}
				parts = append(parts, genai.FunctionCall{Name: call.Name, Args: args})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "model", Parts: parts})
			}
		case model.RoleTool:
			var parts []genai.Part
			for _, res := range msg.ToolResults {
				response := map[string]any{"content": res.Content}
				if res.IsError {
					response["is_error"] = true
				}
				parts = append(parts, genai.FunctionResponse{
					Name:     res.Name,
					Response: response,
				})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "user", Parts: parts})
			}
		}
	}

	return contents
}

// buildTools converts tool definitions to genai function declarations.
func buildTools(defs []model.ToolDefinition) []*genai.Tool {
	tools := make([]*genai.Tool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  convertSchema(def.Schema),
			}},
		})
	}
	return tools
}

// convertSchema translates a JSON Schema document into the genai schema type.
// Only the subset the reflected argument schemas produce is covered.
func convertSchema(doc map[string]any) *genai.Schema {
	if doc == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}

	s := &genai.Schema{}
	if desc, ok := doc["description"].(string); ok {
		s.Description = desc
	}

	switch doc["type"] {
	case "object":
		s.Type = genai.TypeObject
	case "string":
		s.Type = genai.TypeString
	case "number":
		s.Type = genai.TypeNumber
	case "integer":
		s.Type = genai.TypeInteger
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
	default:
		s.Type = genai.TypeObject
	}

	if props, ok := doc["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, sub := range props {
			if subDoc, ok := sub.(map[string]any); ok {
				s.Properties[name] = convertSchema(subDoc)
			}
		}
	}
	if items, ok := doc["items"].(map[string]any); ok {
		s.Items = convertSchema(items)
	}
	if required, ok := doc["required"].([]any); ok {
		for _, e := range required {
			if name, ok := e.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	if enum, ok := doc["enum"].([]any); ok {
		for _, e := range enum {
			if val, ok := e.(string); ok {
				s.Enum = append(s.Enum, val)
			}
		}
	}

	return s
}

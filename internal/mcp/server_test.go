package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/lifecycle"
	"github.com/jonathan/cv-agent/internal/tools"
)

const mcpCV = `Ada Lovelace
ada@example.com

Experience
Analytical Engines Ltd — Senior Engineer
May 1842 – Present
- Designed the first published algorithm

Skills
Go, Rust
`

// testResponse is a JSON-RPC 2.0 response for test assertions. Result
// is kept as raw JSON so each test can unmarshal it into the expected
// type.
type testResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *testRPCError   `json:"error"`
}

type testRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type testAnnotations struct {
	ReadOnlyHint    *bool `json:"readOnlyHint"`
	DestructiveHint *bool `json:"destructiveHint"`
	IdempotentHint  *bool `json:"idempotentHint"`
	OpenWorldHint   *bool `json:"openWorldHint"`
}

type testToolDescription struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema map[string]any   `json:"inputSchema"`
	Annotations *testAnnotations `json:"annotations"`
}

type testContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// testEnvelope mirrors the dispatch envelope carried in
// structuredContent.
type testEnvelope struct {
	Success   bool            `json:"success"`
	Tool      string          `json:"tool"`
	Data      json.RawMessage `json:"data"`
	Summary   string          `json:"summary"`
	Error     string          `json:"error"`
	Kind      string          `json:"error_kind"`
	Timestamp string          `json:"timestamp"`
}

type testCallResult struct {
	Content           []testContentBlock `json:"content"`
	StructuredContent testEnvelope       `json:"structuredContent"`
	IsError           bool               `json:"isError"`
}

// newTestServer builds an MCP server over a ready lifecycle manager
// backed by a temp resume file. SMTP env is cleared so the channel
// stays unconfigured regardless of the host environment.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	for _, key := range []string{"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM"} {
		t.Setenv(key, "")
	}

	path := filepath.Join(t.TempDir(), "resume.md")
	if err := os.WriteFile(path, []byte(mcpCV), 0o644); err != nil {
		t.Fatalf("writing resume fixture: %v", err)
	}

	manager := lifecycle.NewManager(&config.Config{Resume: path}, nil)
	if state := manager.Initialize(context.Background()); state != lifecycle.StateReady {
		t.Fatalf("manager state = %q, want %q", state, lifecycle.StateReady)
	}

	return NewServer(manager, nil)
}

// initMessages returns the initialize request and initialized
// notification that start every MCP session.
func initMessages() []map[string]any {
	return []map[string]any{
		{
			"jsonrpc": "2.0",
			"id":      0,
			"method":  "initialize",
			"params": map[string]any{
				"protocolVersion": protocolVersion,
				"capabilities":    map[string]any{},
				"clientInfo":      map[string]any{"name": "test", "version": "1.0"},
			},
		},
		{
			"jsonrpc": "2.0",
			"method":  "notifications/initialized",
		},
	}
}

// callMessage builds a tools/call request.
func callMessage(id int, tool string, arguments map[string]any) map[string]any {
	params := map[string]any{"name": tool}
	if arguments != nil {
		params["arguments"] = arguments
	}
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params":  params,
	}
}

// mcpSession sends a sequence of JSON-RPC messages to the server and
// returns the responses. Notifications produce no response.
func mcpSession(t *testing.T, server *Server, messages ...map[string]any) []testResponse {
	t.Helper()

	var input bytes.Buffer
	for _, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("marshal message: %v", err)
		}
		input.Write(data)
		input.WriteByte('\n')
	}

	var output bytes.Buffer
	if err := server.Run(&input, &output); err != nil {
		t.Fatalf("server.Run: %v", err)
	}

	var responses []testResponse
	scanner := bufio.NewScanner(&output)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp testResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			t.Fatalf("unmarshal response: %v\nraw: %s", err, line)
		}
		responses = append(responses, resp)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanning output: %v", err)
	}

	return responses
}

// decodeCallResult unmarshals a tools/call response body.
func decodeCallResult(t *testing.T, resp testResponse) testCallResult {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected JSON-RPC error: code=%d message=%q", resp.Error.Code, resp.Error.Message)
	}
	var result testCallResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal tools/call result: %v", err)
	}
	return result
}

func TestServer_Initialize(t *testing.T) {
	server := newTestServer(t)
	responses := mcpSession(t, server, initMessages()...)

	// Only the initialize request produces a response.
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}

	resp := responses[0]
	if resp.Error != nil {
		t.Fatalf("unexpected error: code=%d message=%q", resp.Error.Code, resp.Error.Message)
	}

	var result initializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}

	if result.ProtocolVersion != protocolVersion {
		t.Errorf("protocolVersion = %q, want %q", result.ProtocolVersion, protocolVersion)
	}
	if result.ServerInfo.Name != serverName {
		t.Errorf("serverInfo.name = %q, want %q", result.ServerInfo.Name, serverName)
	}
	if result.Capabilities.Tools == nil {
		t.Error("capabilities.tools is nil, expected non-nil")
	}
}

func TestServer_RequiresInitialize(t *testing.T) {
	server := newTestServer(t)
	responses := mcpSession(t, server, map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	})

	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	resp := responses[0]
	if resp.Error == nil {
		t.Fatal("expected error for tools/list before initialize")
	}
	if resp.Error.Code != codeInvalidRequest {
		t.Errorf("error code = %d, want %d", resp.Error.Code, codeInvalidRequest)
	}
	if !strings.Contains(resp.Error.Message, "not initialized") {
		t.Errorf("error message = %q, want it to mention initialization", resp.Error.Message)
	}
}

func TestServer_PingBeforeInitialize(t *testing.T) {
	server := newTestServer(t)
	responses := mcpSession(t, server, map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "ping",
	})

	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("unexpected error: %v", responses[0].Error)
	}
	if string(responses[0].Result) != "{}" {
		t.Errorf("ping result = %s, want {}", responses[0].Result)
	}
}

func TestServer_ToolsList(t *testing.T) {
	server := newTestServer(t)
	messages := append(initMessages(), map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	})

	responses := mcpSession(t, server, messages...)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}

	resp := responses[1]
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	var result struct {
		Tools []testToolDescription `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}

	if len(result.Tools) != 6 {
		t.Fatalf("expected 6 tools, got %d", len(result.Tools))
	}
	if result.Tools[0].Name != tools.ToolGetPersonalInfo {
		t.Errorf("tools[0].name = %q, want %q", result.Tools[0].Name, tools.ToolGetPersonalInfo)
	}

	byName := make(map[string]testToolDescription)
	for _, desc := range result.Tools {
		byName[desc.Name] = desc
		if desc.Description == "" {
			t.Errorf("tool %q has empty description", desc.Name)
		}
		if desc.InputSchema["type"] != "object" {
			t.Errorf("tool %q inputSchema type = %v, want object", desc.Name, desc.InputSchema["type"])
		}
	}

	skills, ok := byName[tools.ToolGetSkills]
	if !ok {
		t.Fatal("missing get_skills in tools/list")
	}
	if skills.Annotations == nil || skills.Annotations.ReadOnlyHint == nil || !*skills.Annotations.ReadOnlyHint {
		t.Error("get_skills should carry readOnlyHint=true")
	}

	email, ok := byName[tools.ToolSendEmail]
	if !ok {
		t.Fatal("missing send_email in tools/list")
	}
	if email.Annotations == nil || email.Annotations.ReadOnlyHint == nil || *email.Annotations.ReadOnlyHint {
		t.Error("send_email should carry readOnlyHint=false")
	}
	if email.Annotations.OpenWorldHint == nil || !*email.Annotations.OpenWorldHint {
		t.Error("send_email should carry openWorldHint=true")
	}
}

func TestServer_ToolsCall_GetSkills(t *testing.T) {
	server := newTestServer(t)
	messages := append(initMessages(), callMessage(1, tools.ToolGetSkills, nil))

	responses := mcpSession(t, server, messages...)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}

	result := decodeCallResult(t, responses[1])
	if result.IsError {
		t.Fatal("isError = true, want false")
	}

	env := result.StructuredContent
	if !env.Success {
		t.Fatalf("envelope success = false, error = %q", env.Error)
	}
	if env.Tool != tools.ToolGetSkills {
		t.Errorf("envelope tool = %q, want %q", env.Tool, tools.ToolGetSkills)
	}
	if _, err := time.Parse(time.RFC3339, env.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", env.Timestamp, err)
	}

	var skills []string
	if err := json.Unmarshal(env.Data, &skills); err != nil {
		t.Fatalf("unmarshal skills data: %v", err)
	}
	if len(skills) != 2 || skills[0] != "Go" || skills[1] != "Rust" {
		t.Errorf("skills = %v, want [Go Rust]", skills)
	}

	// The text block carries the serialized envelope.
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	if result.Content[0].Type != "text" {
		t.Errorf("content type = %q, want text", result.Content[0].Type)
	}
	if !strings.Contains(result.Content[0].Text, `"get_skills"`) {
		t.Errorf("content text %q should contain the tool name", result.Content[0].Text)
	}
}

func TestServer_ToolsCall_UnknownTool(t *testing.T) {
	server := newTestServer(t)
	messages := append(initMessages(), callMessage(1, "get_horoscope", nil))

	responses := mcpSession(t, server, messages...)
	result := decodeCallResult(t, responses[1])

	// Unknown tools surface inside the envelope, not as JSON-RPC errors.
	if !result.IsError {
		t.Error("isError = false, want true")
	}
	env := result.StructuredContent
	if env.Success {
		t.Error("envelope success = true, want false")
	}
	if env.Kind != "unknown_tool" {
		t.Errorf("envelope kind = %q, want unknown_tool", env.Kind)
	}
	if !strings.Contains(env.Error, "get_horoscope") {
		t.Errorf("envelope error = %q, want it to name the tool", env.Error)
	}
}

func TestServer_ToolsCall_InvalidArguments(t *testing.T) {
	server := newTestServer(t)
	messages := append(initMessages(), callMessage(1, tools.ToolSearchCV, map[string]any{}))

	responses := mcpSession(t, server, messages...)
	result := decodeCallResult(t, responses[1])

	if !result.IsError {
		t.Error("isError = false, want true")
	}
	env := result.StructuredContent
	if env.Kind != "invalid_arguments" {
		t.Errorf("envelope kind = %q, want invalid_arguments", env.Kind)
	}
	if !strings.Contains(env.Error, "query") {
		t.Errorf("envelope error = %q, want it to name the query field", env.Error)
	}
}

func TestServer_ToolsCall_Search(t *testing.T) {
	server := newTestServer(t)
	messages := append(initMessages(), callMessage(1, tools.ToolSearchCV, map[string]any{"query": "rust"}))

	responses := mcpSession(t, server, messages...)
	result := decodeCallResult(t, responses[1])

	env := result.StructuredContent
	if !env.Success {
		t.Fatalf("envelope success = false, error = %q", env.Error)
	}

	// "rust" hits both the skills entry and the raw text line.
	var matches []map[string]any
	if err := json.Unmarshal(env.Data, &matches); err != nil {
		t.Fatalf("unmarshal matches: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
	if env.Summary == "" {
		t.Error("expected non-empty summary")
	}
}

func TestServer_ToolsCall_ChannelUnavailable(t *testing.T) {
	server := newTestServer(t)
	messages := append(initMessages(), callMessage(1, tools.ToolSendEmail, map[string]any{
		"recipient": "ada@example.com",
		"subject":   "Hello",
		"body":      "A note.",
	}))

	responses := mcpSession(t, server, messages...)
	result := decodeCallResult(t, responses[1])

	if !result.IsError {
		t.Error("isError = false, want true")
	}
	if result.StructuredContent.Kind != "channel_unavailable" {
		t.Errorf("envelope kind = %q, want channel_unavailable", result.StructuredContent.Kind)
	}
}

func TestServer_ToolsCall_ManagerNotReady(t *testing.T) {
	manager := lifecycle.NewManager(&config.Config{}, nil)
	server := NewServer(manager, nil)

	messages := append(initMessages(), callMessage(1, tools.ToolGetSkills, nil))
	responses := mcpSession(t, server, messages...)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}

	resp := responses[1]
	if resp.Error == nil {
		t.Fatal("expected error when the manager has not initialized")
	}
	if resp.Error.Code != codeInternalError {
		t.Errorf("error code = %d, want %d", resp.Error.Code, codeInternalError)
	}
}

func TestServer_ParseError(t *testing.T) {
	server := newTestServer(t)

	input := strings.NewReader("this is not json\n")
	var output bytes.Buffer
	if err := server.Run(input, &output); err != nil {
		t.Fatalf("server.Run: %v", err)
	}

	var resp testResponse
	if err := json.Unmarshal(bytes.TrimSpace(output.Bytes()), &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, output.String())
	}
	if resp.Error == nil || resp.Error.Code != codeParseError {
		t.Fatalf("expected parse error response, got %+v", resp)
	}
	if string(resp.ID) != "null" {
		t.Errorf("id = %s, want null", resp.ID)
	}
}

func TestServer_UnsupportedVersion(t *testing.T) {
	server := newTestServer(t)
	responses := mcpSession(t, server, map[string]any{
		"jsonrpc": "1.0",
		"id":      1,
		"method":  "ping",
	})

	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != codeInvalidRequest {
		t.Fatalf("expected invalid request error, got %+v", responses[0])
	}
}

func TestServer_UnknownMethod(t *testing.T) {
	server := newTestServer(t)
	messages := append(initMessages(), map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "resources/list",
	})

	responses := mcpSession(t, server, messages...)
	resp := responses[len(responses)-1]
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found error, got %+v", resp)
	}
}

func TestServer_NotificationsProduceNoResponse(t *testing.T) {
	server := newTestServer(t)
	messages := append(initMessages(),
		map[string]any{"jsonrpc": "2.0", "method": "ping"},
		map[string]any{"jsonrpc": "2.0", "id": 2, "method": "ping"},
	)

	responses := mcpSession(t, server, messages...)

	// initialize + final ping; the ping notification is silent.
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
}

func TestServer_SkipsBlankLines(t *testing.T) {
	server := newTestServer(t)

	init, err := json.Marshal(initMessages()[0])
	if err != nil {
		t.Fatalf("marshal initialize: %v", err)
	}

	input := strings.NewReader("\n" + string(init) + "\n\n")
	var output bytes.Buffer
	if err := server.Run(input, &output); err != nil {
		t.Fatalf("server.Run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 response line, got %d: %q", len(lines), lines)
	}
}

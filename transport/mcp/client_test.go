package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/minesweeper/game/engine"
	"github.com/wricardo/minesweeper/game/service"
	"github.com/wricardo/minesweeper/logging"
)

func testView() *engine.GameView {
	return &engine.GameView{
		ConfigName:     "Beginner",
		Size:           3,
		MineCount:      1,
		RemainingMines: 1,
		HiddenCount:    4,
		Outcome:        engine.InProgress,
		Board:          []string{"..1", "1F#", "###"},
		Flags:          []engine.Coord{{Row: 1, Col: 1}},
		Message:        "Keep going",
	}
}

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "test-session"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != "test-session" {
		t.Errorf("Expected id test-session, got %v", response["id"])
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "json error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "game is over"})
			},
			want: "game is over",
		},
		{
			name: "plain text body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal Server Error"))
			},
			want: "API error: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected %q in error, got: %v", tt.want, err)
			}
		})
	}
}

func TestClient_apiCall_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url)
	client.httpClient.Timeout = time.Second
	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for closed server")
	}
}

func TestClient_handleCreateSession(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: "Custom 3x3",
			View:       testView(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"size":       float64(3),
		"mine_count": float64(1),
		"seed":       float64(42),
	}))
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if got["size"] != float64(3) || got["mine_count"] != float64(1) || got["seed"] != float64(42) {
		t.Errorf("unexpected request body: %v", got)
	}
	if _, ok := got["config_id"]; ok {
		t.Errorf("config_id should be omitted when not given: %v", got)
	}
}

func TestClient_handleReveal(t *testing.T) {
	var got engine.Coord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abc/reveal" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.MoveResult{
			Success:  true,
			View:     testView(),
			Revealed: []engine.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
			Events:   []service.GameEvent{{Type: service.EventCascade, Message: "Opened 2 cells"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleReveal(context.Background(), callTool("reveal", map[string]interface{}{
		"session_id": "abc",
		"row":        float64(0),
		"col":        float64(1),
		"intent":     "corner is safe",
	}))
	if err != nil {
		t.Fatalf("handleReveal failed: %v", err)
	}

	if got != (engine.Coord{Row: 0, Col: 1}) {
		t.Errorf("posted coord = %+v", got)
	}

	text := resultText(t, result)
	for _, want := range []string{"✓ Move successful", "Cells revealed: 2", "cascade: Opened 2 cells", "1F#"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleReveal_LogsIntent(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Get()
	level := logger.GetLevel()
	logger.SetLevel(logrus.DebugLevel)
	logging.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetLevel(level)
		logging.SetOutput(io.Discard)
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.MoveResult{Success: true, View: testView()})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.handleReveal(context.Background(), callTool("reveal", map[string]interface{}{
		"session_id": "abc",
		"row":        float64(0),
		"col":        float64(0),
		"intent":     "open the corner",
	})); err != nil {
		t.Fatalf("handleReveal failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Move intent", `intent="open the corner"`, "tool=reveal", "session=abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in log output, got: %s", want, out)
		}
	}
}

func TestClient_handleReveal_MissingCoord(t *testing.T) {
	client := NewClient("http://localhost:0")
	result, err := client.handleReveal(context.Background(), callTool("reveal", map[string]interface{}{
		"session_id": "abc",
		"row":        float64(1),
	}))
	if err != nil {
		t.Fatalf("handleReveal failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error when col is missing")
	}
}

func TestClient_handleReveal_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "game is over"})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleReveal(context.Background(), callTool("reveal", map[string]interface{}{
		"session_id": "abc",
		"row":        float64(0),
		"col":        float64(0),
	}))
	if err != nil {
		t.Fatalf("handleReveal failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if text := resultText(t, result); !strings.Contains(text, "game is over") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestClient_handleBulkReveal(t *testing.T) {
	var got struct {
		Coords []engine.Coord `json:"coords"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abc/bulk-reveal" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)

		view := testView()
		view.Outcome = engine.Loss
		view.GameOver = true
		json.NewEncoder(w).Encode(service.BulkRevealResult{
			RequestedReveals: 2,
			RevealsExecuted:  2,
			CellsRevealed:    2,
			View:             view,
			StoppedReason:    "Revealed a mine",
			StopReasonCode:   service.StopDetonated,
			StoppedOnReveal:  2,
			Steps: []service.RevealStep{
				{Idx: 1, Coord: engine.Coord{Row: 2, Col: 0}, CellsRevealed: 1, Outcome: engine.InProgress},
				{Idx: 2, Coord: engine.Coord{Row: 2, Col: 2}, CellsRevealed: 1, Outcome: engine.Loss, Detonated: true},
			},
			GameOver: true,
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleBulkReveal(context.Background(), callTool("bulk_reveal", map[string]interface{}{
		"session_id": "abc",
		"coords": []interface{}{
			map[string]interface{}{"row": float64(2), "col": float64(0)},
			map[string]interface{}{"row": float64(2), "col": float64(2)},
		},
	}))
	if err != nil {
		t.Fatalf("handleBulkReveal failed: %v", err)
	}

	if len(got.Coords) != 2 || got.Coords[1] != (engine.Coord{Row: 2, Col: 2}) {
		t.Errorf("posted coords = %+v", got.Coords)
	}

	text := resultText(t, result)
	for _, want := range []string{"Executed 2/2 reveals", "Stopped at reveal 2", "(2,2) cells=1 outcome=loss", "GAME OVER"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleBulkReveal_BadCoord(t *testing.T) {
	result, err := NewClient("http://localhost:0").handleBulkReveal(context.Background(), callTool("bulk_reveal", map[string]interface{}{
		"session_id": "abc",
		"coords":     []interface{}{"0,0"},
	}))
	if err != nil {
		t.Fatalf("handleBulkReveal failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for malformed coords")
	}
}

func TestClient_handleMoveHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "1" || q.Get("order") != "asc" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Moves: []engine.MoveHistoryEntry{
				{Action: "flag", Coord: engine.Coord{Row: 1, Col: 1}, Outcome: engine.InProgress, MoveNumber: 2},
			},
			TotalMoves: 3,
			Page:       2,
			PageSize:   1,
			TotalPages: 3,
			HasNext:    true,
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleMoveHistory(context.Background(), callTool("move_history", map[string]interface{}{
		"session_id": "abc",
		"page":       float64(2),
		"limit":      float64(1),
		"order":      "asc",
	}))
	if err != nil {
		t.Fatalf("handleMoveHistory failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Page 2/3", "#2: flag (1,1)", "next page"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleListConfigs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]service.ConfigInfo{
			{ConfigID: "beginner", Name: "Beginner", Description: "Small board", Size: 9, MineCount: 10},
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleListConfigs(context.Background(), callTool("list_configs", nil))
	if err != nil {
		t.Fatalf("handleListConfigs failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Board: 9x9, Mines: 10") {
		t.Errorf("unexpected listing: %s", text)
	}
}

func TestClient_handleDescribeCell(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(testView())
	}))
	defer server.Close()

	client := NewClient(server.URL)

	tests := []struct {
		name    string
		row     float64
		col     float64
		want    string
		isError bool
	}{
		{"number", 0, 2, "1 neighbouring mine", false},
		{"flag", 1, 1, "Flagged cell", false},
		{"hidden", 2, 2, "Revealable: true", false},
		{"empty", 0, 0, "no neighbouring mines", false},
		{"out of bounds", 3, 0, "out of bounds", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := client.handleDescribeCell(context.Background(), callTool("describe_cell", map[string]interface{}{
				"session_id": "abc",
				"row":        tt.row,
				"col":        tt.col,
			}))
			if err != nil {
				t.Fatalf("handleDescribeCell failed: %v", err)
			}
			if result.IsError != tt.isError {
				t.Errorf("IsError = %v, want %v", result.IsError, tt.isError)
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("Expected %q in result, got: %s", tt.want, text)
			}
		})
	}
}

func TestFormatGameView(t *testing.T) {
	result := formatGameView(testView())

	expectedFields := []string{
		"Board: 3x3",
		"Mines: 1",
		"Remaining: 1",
		"Hidden: 4",
		"  0 ..1",
		"  1 1F#",
		"Keep going",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}

	if formatGameView(nil) != "No game state available" {
		t.Error("nil view should render a placeholder")
	}
}

func TestFormatGameView_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		victory bool
		want    string
	}{
		{"loss", false, "💥 GAME OVER"},
		{"win", true, "🎉 VICTORY!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := testView()
			view.GameOver = true
			view.Victory = tt.victory
			if result := formatGameView(view); !strings.Contains(result, tt.want) {
				t.Errorf("Expected %q in result, got: %s", tt.want, result)
			}
		})
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{"GAME OBJECTIVE:", "BOARD LEGEND:", "BULK REVEAL:", "up to 50 cells"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, text)
		}
	}
}

func TestClient_HTTPHandler(t *testing.T) {
	client := NewClient("http://localhost:8080")
	server := httptest.NewServer(client.HTTPHandler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", resp.StatusCode)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	resp, err = http.Post(server.URL, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	for _, tool := range []string{"reveal", "toggle_flag", "bulk_reveal", "describe_cell"} {
		if !strings.Contains(string(data), `"`+tool+`"`) {
			t.Errorf("tools/list missing %s: %s", tool, data)
		}
	}
}

func TestClient_CreateSessionSchema(t *testing.T) {
	client := NewClient("http://localhost:8080")
	server := httptest.NewServer(client.HTTPHandler())
	defer server.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	resp, err := http.Post(server.URL, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "see list_configs") {
		t.Errorf("config_id description missing: %s", data)
	}
	// Presets are resolved by ID only; no config_id picks one at random
	if strings.Contains(string(data), "random") {
		t.Errorf("create_session schema should not advertise a random preset: %s", data)
	}
}

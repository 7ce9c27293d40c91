package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/memorygame/game/engine"
	"github.com/wricardo/mcp-training/memorygame/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Memory Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Memory Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Find every pair of matching icons by flipping two face-down cards at a time,
using as few clicks as possible.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions / get_session: Inspect sessions
- select_difficulty: Deal a deck (easy 6 pairs, medium 8, hard 12)
- flip_card: Flip the card at an index
- game_state: Current board
- reset_game: Redeal at the same difficulty
- back_to_menu: Return to the difficulty menu
- flip_history: Past flips with the icons they revealed
- list_difficulties / list_configs: What can be played
- game_instructions: Full rules

NOTE: Dealing and flipping two cards start short timers. While the board is
loading or locked, flips are ignored; call game_state again after a moment.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID"))

	// Session management
	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a new game session with optional rule set selection"),
		mcp.WithString("config_id", mcp.Description("Rule set to use (optional, see list_configs)")),
		mcp.WithString("session_id", mcp.Description("Choose the session ID (optional). An existing session with this ID is resumed")),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List all active game sessions"),
	), c.handleListSessions)

	c.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get details of a specific session"),
		sessionID,
	), c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.NewTool("game_state",
		mcp.WithDescription("Get the current board, selection, matched pairs and click count"),
		sessionID,
	), c.handleGameState)

	c.mcpServer.AddTool(mcp.NewTool("select_difficulty",
		mcp.WithDescription("Deal a freshly shuffled deck. Only accepted on the menu."),
		sessionID,
		mcp.WithString("difficulty",
			mcp.Required(),
			mcp.Enum("easy", "medium", "hard"),
			mcp.Description("easy (6 pairs), medium (8 pairs) or hard (12 pairs)"),
		),
	), c.handleSelectDifficulty)

	c.mcpServer.AddTool(mcp.NewTool("flip_card",
		mcp.WithDescription("Flip the face-down card at index (0-based). Two flips complete an attempt."),
		sessionID,
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Card index, 0 to cards-1")),
		mcp.WithString("intent", mcp.Description("Why you are flipping this card (optional)")),
	), c.handleFlipCard)

	c.mcpServer.AddTool(mcp.NewTool("reset_game",
		mcp.WithDescription("Redeal a new deck at the current difficulty"),
		sessionID,
	), c.handleReset)

	c.mcpServer.AddTool(mcp.NewTool("back_to_menu",
		mcp.WithDescription("Abandon the current deck and return to the difficulty menu"),
		sessionID,
	), c.handleBackToMenu)

	c.mcpServer.AddTool(mcp.NewTool("flip_history",
		mcp.WithDescription("List past flips with the icon each one revealed"),
		sessionID,
		mcp.WithNumber("page", mcp.Description("Page number (default 1)")),
		mcp.WithNumber("limit", mcp.Description("Flips per page (default 20, max 100)")),
		mcp.WithString("order", mcp.Enum("asc", "desc"), mcp.Description("asc for oldest first (default desc)")),
	), c.handleFlipHistory)

	// Reference
	c.mcpServer.AddTool(mcp.NewTool("list_difficulties",
		mcp.WithDescription("List difficulties with their pair counts"),
	), c.handleListDifficulties)

	c.mcpServer.AddTool(mcp.NewTool("list_configs",
		mcp.WithDescription("List available rule sets"),
	), c.handleListConfigs)

	c.mcpServer.AddTool(mcp.NewTool("game_instructions",
		mcp.WithDescription("Get the complete game rules and strategy notes"),
	), c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// intArg accepts JSON numbers (float64) and ints
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// sessionPath validates the session_id argument and builds an API path
func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	id := stringArg(args, "session_id")
	if id == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := stringArg(arguments(request), "config_id"); configID != "" {
		body["config_id"] = configID
	}
	if sessionID := stringArg(arguments(request), "session_id"); sessionID != "" {
		body["session_id"] = sessionID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\nNext: select_difficulty with easy, medium or hard.\n",
		session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := engine.Phase("unknown")
		if s.GameState != nil {
			phase = s.GameState.Phase
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigName, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameView
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSelectDifficulty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/difficulty")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]string{"difficulty": stringArg(args, "difficulty")}
	return c.action(ctx, path, body)
}

func (c *Client) handleFlipCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/flip")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index must be an integer"), nil
	}

	return c.action(ctx, path, map[string]int{"index": index})
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.action(ctx, path, nil)
}

func (c *Client) handleBackToMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/menu")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.action(ctx, path, nil)
}

// action posts a player action and formats the result
func (c *Client) action(ctx context.Context, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleFlipHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := stringArg(args, "order"); order != "" {
		params.Set("order", order)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListDifficulties(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var difficulties []service.DifficultyInfo
	if err := c.apiCall(ctx, "GET", "/api/difficulties", nil, &difficulties); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Difficulties:\n\n")
	for _, d := range difficulties {
		fmt.Fprintf(&b, "• %s: %d pairs, %d cards (%d columns)\n", d.Name, d.PairCount, d.Cards, d.Columns)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Icons: %d, Deal: %dms, Reveal: %dms\n\n",
			config.Name, config.ConfigID, config.Description,
			config.PaletteSize, config.DealDelayMs, config.ResolveDelayMs)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🃏 Memory Game - Complete Instructions

GAME OBJECTIVE:
Every icon appears on exactly two cards. Find all pairs. The score is the
number of clicks (accepted flips); fewer is better.

FLOW:
1. create_session, then select_difficulty (easy 6 pairs / medium 8 / hard 12).
2. The deck is shuffled and dealt. For a short moment the board is LOADING
   and flips are ignored.
3. flip_card reveals one card. Flip a second card:
   • Same icon: both stay face up as a matched pair.
   • Different icons: both stay visible briefly, then turn face down again.
   In both cases the board is LOCKED until the reveal delay elapses.
4. The game is won when every card is matched.
5. reset_game deals a new deck at the same difficulty; back_to_menu returns
   to the difficulty menu. Both cancel any pending deal or reveal.

IGNORED FLIPS (accepted: false, no click counted):
• Flipping on the menu, while loading or while locked
• Flipping a card that is already face up or matched
• An index outside the deck

BOARD LEGEND (game_state):
• ??      - face-down card
• [🚀]    - currently selected (face up)
• (🚀)    - matched

🤖 STRATEGY:
• Remember every icon you have seen (flip_history lists them with indices).
• If you already know both positions of an icon, flip those two.
• Otherwise flip a card you have never seen. If its twin is known, complete
  the pair with your second flip; if not, flip another unseen card.
• A perfect-memory player never needs more than two clicks per card.
• After a mismatch, wait a moment and call game_state before flipping again.

SESSION MANAGEMENT:
• Multiple sessions can run simultaneously, each with a 4-character ID.
• Each session has its own deck, timers and history.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameView) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s", state.Phase)
	if state.Difficulty != "" {
		fmt.Fprintf(&b, " | Difficulty: %s | Pairs: %d/%d", state.Difficulty, state.MatchedPairs, state.PairCount)
		if state.Phase == engine.PhasePlaying && !state.Loading {
			fmt.Fprintf(&b, " | Left: %d (%d cards face down)", state.Remaining, len(state.Hidden))
		}
	}
	fmt.Fprintf(&b, " | Clicks: %d\n", state.Clicks)

	switch {
	case state.Phase == engine.PhaseMenu:
		b.WriteString("Choose a difficulty: easy, medium or hard\n")
	case state.Loading:
		b.WriteString("Dealing cards, flips are ignored for a moment\n")
	case state.Locked:
		b.WriteString("Board locked, the last two cards are being resolved\n")
	}

	if len(state.Cards) > 0 {
		b.WriteString("\n")
		b.WriteString(formatBoard(state))
	}

	if state.Won {
		fmt.Fprintf(&b, "\n🎉 VICTORY in %d clicks!", state.Clicks)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

// formatBoard renders the cards in rows of the difficulty's column hint
func formatBoard(state *engine.GameView) string {
	columns := state.Columns
	if columns <= 0 {
		columns = 4
	}

	var b strings.Builder
	for i, card := range state.Cards {
		fmt.Fprintf(&b, "%2d:%-6s", card.Index, cardLabel(card))
		if (i+1)%columns == 0 || i == len(state.Cards)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func cardLabel(card engine.CardView) string {
	switch {
	case card.Matched:
		return "(" + card.Icon + ")"
	case card.Revealed:
		return "[" + card.Icon + "]"
	}
	return "??"
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder

	if !result.Accepted {
		b.WriteString("✗ Ignored")
		if result.Message != "" {
			fmt.Fprintf(&b, ": %s", result.Message)
		}
		b.WriteString("\n\n")
		b.WriteString(formatGameState(result.GameState))
		return b.String()
	}

	flip := result.Flip
	switch {
	case flip == nil:
		fmt.Fprintf(&b, "✓ %s\n", result.Event)
	case result.Event == engine.EventMatched:
		fmt.Fprintf(&b, "✓ Match! Card %d is %s\n", flip.Index, flip.Icon)
	case result.Event == engine.EventMismatched:
		fmt.Fprintf(&b, "✗ No match: card %d is %s. Both cards flip back shortly.\n", flip.Index, flip.Icon)
	case result.Event == engine.EventWon:
		fmt.Fprintf(&b, "🎉 Final pair! Card %d is %s\n", flip.Index, flip.Icon)
	default:
		fmt.Fprintf(&b, "✓ Flipped card %d: %s\n", flip.Index, flip.Icon)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Flip History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalFlips)

	for _, flip := range history.Flips {
		deal := flip.DealID
		if len(deal) > 8 {
			deal = deal[:8]
		}
		fmt.Fprintf(&b, "%d. card %d = %s (%s, click %d, %s deal %s)\n",
			flip.Seq, flip.Index, flip.Icon, flip.Event, flip.Clicks, flip.Difficulty, deal)
	}

	if len(history.Flips) == 0 {
		b.WriteString("(no flips yet)\n")
	}
	return b.String()
}

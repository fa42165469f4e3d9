package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/ledger"
	"github.com/wricardo/mcp-training/propertygame/game/service"
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
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Property Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Property Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Buy fields, collect rent and develop streets. The richest player when the
round limit is reached, or the last player who is not bankrupt, wins.

A TURN:
1. pay_jail_fine (optional, only while in jail and before rolling)
2. roll_dice
3. pay_rent if the roll left rent pending
4. buy_property, manage_building and mortgage as you like
5. end_turn

AVAILABLE TOOLS:
- create_game, list_games, get_game, list_configs
- game_state, describe_field, ledger, winner
- roll_dice, pay_rent, pay_jail_fine, buy_property, end_turn, declare_bankruptcy
- manage_building: build or sell houses and hotels
- mortgage: mortgage a field or lift a mortgage
- game_instructions: full rules

NOTE: The 'intent' parameter on action tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

var gameIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Game ID",
}

var intentProperty = map[string]interface{}{
	"type":        "string",
	"description": "Brief explanation of the intent behind this action (serves as a rubber duck to help explain your reasoning)",
}

// turnTools proxy to the body-less turn endpoints.
var turnTools = []struct {
	name        string
	path        string
	description string
}{
	{"roll_dice", "roll", "Roll both dice for the current player and move. Reports tax, chance cards, jail and any rent now due."},
	{"pay_rent", "rent", "Pay the rent left pending by the last roll. Fails without changing anything when the player cannot cover it; mortgage or sell buildings first."},
	{"pay_jail_fine", "jail/pay", "Pay the jail fine to leave jail before rolling."},
	{"buy_property", "buy", "Buy the unowned field the current player stands on."},
	{"end_turn", "end-turn", "Pass the turn to the next player. Requires a roll, no pending rent and a non-negative balance."},
	{"declare_bankruptcy", "bankrupt", "Give up: the current player's fields return to the bank and the player leaves the game."},
}

func (c *Client) registerTools() {
	// Games
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game on a board configuration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Board configuration to use (optional, see list_configs)",
				},
				"players": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Player names in turn order",
				},
				"max_rounds": map[string]interface{}{
					"type":        "integer",
					"description": "Round limit, overrides the board's rules (optional)",
				},
			},
			Required: []string{"players"},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all active games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get details of a specific game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProperty},
			Required:   []string{"game_id"},
		},
	}, c.handleGetGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the players and what the current player still has to do",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProperty},
			Required:   []string{"game_id"},
		},
	}, c.handleGameState)

	// Turn actions
	for _, tool := range turnTools {
		c.mcpServer.AddTool(mcp.Tool{
			Name:        tool.name,
			Description: tool.description,
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"game_id": gameIDProperty,
					"intent":  intentProperty,
				},
				Required: []string{"game_id"},
			},
		}, c.turnHandler(tool.path))
	}

	// Development and mortgages
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "manage_building",
		Description: "Build or sell a house or hotel on a street you own. Houses go up and come down evenly across a colour set; a hotel needs four houses on every street of the set.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty,
				"field_id": map[string]interface{}{
					"type":        "integer",
					"description": "Street field ID",
				},
				"building": map[string]interface{}{
					"type": "string",
					"enum": []string{"house", "hotel"},
				},
				"action": map[string]interface{}{
					"type": "string",
					"enum": []string{"build", "sell"},
				},
				"intent": intentProperty,
			},
			Required: []string{"game_id", "field_id", "building", "action"},
		},
	}, c.handleManageBuilding)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mortgage",
		Description: "Mortgage a field you own for its mortgage value, or lift a mortgage by paying it back plus 10%. Sell a street's buildings before mortgaging it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty,
				"field_id": map[string]interface{}{
					"type":        "integer",
					"description": "Field ID",
				},
				"action": map[string]interface{}{
					"type": "string",
					"enum": []string{"mortgage", "lift"},
				},
				"intent": intentProperty,
			},
			Required: []string{"game_id", "field_id", "action"},
		},
	}, c.handleMortgage)

	// Inspection
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_field",
		Description: "Get everything about one field: price, rent, owner, buildings and mortgage",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty,
				"field_id": map[string]interface{}{
					"type":        "integer",
					"description": "Field ID (0 is the first field)",
				},
			},
			Required: []string{"game_id", "field_id"},
		},
	}, c.handleDescribeField)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "ledger",
		Description: "Get the money movements of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty,
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Only entries of this type (rent, purchase, mortgage, ...)",
				},
				"player": map[string]interface{}{
					"type":        "integer",
					"description": "Only entries paid or received by this player ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleLedger)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "winner",
		Description: "Get the winner and final standings of a finished game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProperty},
			Required:   []string{"game_id"},
		},
	}, c.handleWinner)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
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
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
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

// intArg reads a number argument; JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func gamePath(gameID, suffix string) string {
	p := "/api/games/" + url.PathEscape(gameID)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)
	playersRaw, _ := args["players"].([]interface{})

	players := make([]string, 0, len(playersRaw))
	for _, p := range playersRaw {
		if name, ok := p.(string); ok {
			players = append(players, name)
		}
	}

	body := map[string]interface{}{"players": players}
	if configID != "" {
		body["config_id"] = configID
	}
	if rounds, ok := intArg(args, "max_rounds"); ok {
		body["max_rounds"] = rounds
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/games", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nBoard: %s\nPlayers: %s\n", info.ID, info.ConfigName, strings.Join(info.Players, ", "))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                   `json:"count"`
		Games []service.SessionInfo `json:"games"`
	}
	if err := c.apiCall(ctx, "GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		status := "running"
		if g.GameOver {
			status = "finished"
		}
		result += fmt.Sprintf("- %s (Board: %s, Players: %s, %s, Created: %s)\n",
			g.ID, g.ConfigName, strings.Join(g.Players, ", "), status, g.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, _ := arguments(request)["game_id"].(string)

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", gamePath(gameID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, _ := arguments(request)["game_id"].(string)

	var view service.GameView
	if err := c.apiCall(ctx, "GET", gamePath(gameID, "state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameView(&view)), nil
}

func (c *Client) turnHandler(path string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		gameID, _ := arguments(request)["game_id"].(string)

		var result service.ActionResult
		if err := c.apiCall(ctx, "POST", gamePath(gameID, path), nil, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatActionResult(&result)), nil
	}
}

func (c *Client) fieldCall(ctx context.Context, gameID, path string, fieldID int, action string) (*mcp.CallToolResult, error) {
	body := map[string]interface{}{"field_id": fieldID, "action": action}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", gamePath(gameID, path), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleManageBuilding(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, _ := args["game_id"].(string)
	building, _ := args["building"].(string)
	action, _ := args["action"].(string)
	fieldID, ok := intArg(args, "field_id")
	if !ok {
		return mcp.NewToolResultError("field_id is required"), nil
	}

	var path string
	switch building {
	case "house":
		path = "houses"
	case "hotel":
		path = "hotels"
	default:
		return mcp.NewToolResultError(fmt.Sprintf("building must be house or hotel, got %q", building)), nil
	}
	return c.fieldCall(ctx, gameID, path, fieldID, action)
}

func (c *Client) handleMortgage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, _ := args["game_id"].(string)
	action, _ := args["action"].(string)
	fieldID, ok := intArg(args, "field_id")
	if !ok {
		return mcp.NewToolResultError("field_id is required"), nil
	}
	return c.fieldCall(ctx, gameID, "mortgage", fieldID, action)
}

func (c *Client) handleDescribeField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, _ := args["game_id"].(string)
	fieldID, ok := intArg(args, "field_id")
	if !ok {
		return mcp.NewToolResultError("field_id is required"), nil
	}

	var view service.GameView
	if err := c.apiCall(ctx, "GET", gamePath(gameID, "state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if view.State == nil || fieldID < 0 || fieldID >= len(view.State.Fields) {
		size := 0
		if view.State != nil {
			size = len(view.State.Fields)
		}
		return mcp.NewToolResultError(fmt.Sprintf("Field %d does not exist. The board has fields 0-%d", fieldID, size-1)), nil
	}

	return mcp.NewToolResultText(describeField(view.State, view.State.Fields[fieldID])), nil
}

func (c *Client) handleLedger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, _ := args["game_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", strconv.Itoa(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", strconv.Itoa(limit))
	}
	if typ, _ := args["type"].(string); typ != "" {
		params.Set("type", typ)
	}
	if player, ok := intArg(args, "player"); ok {
		params.Set("player", strconv.Itoa(player))
	}

	path := gamePath(gameID, "ledger")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page ledger.Page
	if err := c.apiCall(ctx, "GET", path, nil, &page); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLedger(&page)), nil
}

func (c *Client) handleWinner(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, _ := arguments(request)["game_id"].(string)

	var result service.GameResult
	if err := c.apiCall(ctx, "GET", gamePath(gameID, "winner"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameResult(&result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Boards:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  Fields: %d, Properties: %d, Starting money: %d, Rounds: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.Fields, config.Properties, config.StartingMoney, config.MaxRounds)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎲 Property Game - Complete Instructions

GAME OBJECTIVE:
Own the board. Collect rent from opponents until they go bankrupt, or be the
player with the largest fortune (cash plus the value of your fields and
buildings) when the round limit is reached.

THE BOARD:
• Fields are numbered from 0 (start) and the board wraps around
• Streets: ownable, grouped by colour, can carry houses and a hotel
• Properties: ownable, fixed rent, never developed
• Special fields: start, jail, go to jail, free parking, tax, chance

A TURN:
1. In jail? Either pay_jail_fine before rolling, or roll and hope for doubles.
   After the last failed attempt the fine is charged and you move anyway.
2. roll_dice: you move by the sum of both dice. Passing start pays the bonus.
3. Landing on an opponent's field leaves rent pending: pay_rent.
4. Landing on a free field: buy_property if you like.
5. Build, sell and mortgage as needed.
6. end_turn. You cannot end a turn with rent pending or a negative balance.

RENT:
• Mortgaged fields collect nothing
• Streets: base rent, then one rent per house level (1-4), then the hotel rent

BUILDING:
• You must own every street of a colour and none of them may be mortgaged
• Houses are built evenly: no street may get ahead of its siblings
• At most 4 houses per street; a hotel replaces the 4 houses
• Selling returns the building cost and must also keep the set even

MORTGAGES:
• Mortgaging pays out the field's mortgage value
• Lifting costs the mortgage value plus 10%
• Sell a street's buildings before mortgaging it

RAISING MONEY:
If you cannot pay rent, sell buildings and mortgage fields until you can.
When everything you own is not enough, declare_bankruptcy: your fields go
back to the bank unowned and unmortgaged.

GAME END:
• Only one player left who is not bankrupt, or
• The round limit is reached: the highest fortune wins (ties go to the
  player earlier in turn order)

USEFUL TOOLS:
- game_state shows what the current player still has to do
- describe_field explains one field in detail
- ledger lists every payment; filter by type or player

Good luck, landlord! 🏠🏨`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	status := "running"
	if info.GameOver {
		status = "finished"
	}
	return fmt.Sprintf("Game: %s\nBoard: %s\nPlayers: %s\nStatus: %s\nCreated: %s\n\n%s",
		info.ID, info.ConfigName, strings.Join(info.Players, ", "), status,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(info.GameState))
}

func playerName(state *engine.GameState, id int) string {
	for _, p := range state.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("player %d", id)
}

func fieldLine(state *engine.GameState, f engine.FieldState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%2d %-24s", f.ID, f.Name)
	switch f.Kind {
	case engine.KindSpecial:
		b.WriteString(string(f.SpecialKind))
		if f.Amount > 0 {
			fmt.Fprintf(&b, " %d", f.Amount)
		}
	case engine.KindStreet, engine.KindProperty:
		fmt.Fprintf(&b, "%-8s price %d rent %d", f.Colour, f.Price, f.CurrentRent)
		if f.Owner != nil {
			fmt.Fprintf(&b, " owner %s", playerName(state, *f.Owner))
		}
		switch {
		case f.Hotel:
			b.WriteString(" [hotel]")
		case f.Houses > 0:
			fmt.Fprintf(&b, " [%d houses]", f.Houses)
		}
		if f.Mortgaged {
			b.WriteString(" (mortgaged)")
		}
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Round: %d | Moves: %d | Last roll: %d+%d\n\n",
		state.Round, state.TotalMoves, state.LastRoll.First, state.LastRoll.Second)

	result.WriteString("Players:\n")
	for i, p := range state.Players {
		marker := " "
		if i == state.CurrentPlayer && !state.Win {
			marker = "▶"
		}
		status := ""
		switch {
		case p.Bankrupt:
			status = " BANKRUPT"
		case p.InJail:
			status = fmt.Sprintf(" IN JAIL (attempt %d)", p.JailAttempts)
		}
		fmt.Fprintf(&result, "%s %d %s: money %d, fortune %d, on field %d, owns %v%s\n",
			marker, p.ID, p.Name, p.Money, p.Fortune, p.Position, p.OwnedFields, status)
	}

	result.WriteString("\nBoard:\n")
	for _, f := range state.Fields {
		result.WriteString(fieldLine(state, f))
		for _, p := range state.Players {
			if !p.Bankrupt && p.Position == f.ID {
				fmt.Fprintf(&result, " <%s>", p.Name)
			}
		}
		result.WriteString("\n")
	}

	if state.Win {
		result.WriteString("\n🏁 GAME OVER")
	}
	return result.String()
}

// nextSteps tells the current player what the server will accept next.
func nextSteps(turn service.TurnState, gameOver bool) string {
	switch {
	case gameOver:
		return "Game over: use winner for the standings"
	case !turn.Rolled:
		return "Next: roll_dice (or pay_jail_fine while in jail)"
	case turn.RentPending:
		return fmt.Sprintf("Next: pay_rent (%d owed)", turn.RentAmount)
	default:
		return "Next: buy_property, manage_building, mortgage or end_turn"
	}
}

func formatGameView(view *service.GameView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game: %s | Current player: %s\n", view.SessionID, view.CurrentPlayer)
	b.WriteString(nextSteps(view.Turn, view.GameOver) + "\n\n")
	b.WriteString(formatGameState(view.State))
	if view.Result != nil {
		b.WriteString("\n\n" + formatGameResult(view.Result))
	}
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ " + result.Message + "\n")
	} else {
		b.WriteString("✗ " + result.Message + "\n")
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString(nextSteps(result.Turn, result.GameOver) + "\n\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func describeField(state *engine.GameState, f engine.FieldState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Field %d: %s\n━━━━━━━━━━━━━━━━━━━━━━━━\nKind: %s\n", f.ID, f.Name, f.Kind)

	switch f.Kind {
	case engine.KindSpecial:
		fmt.Fprintf(&b, "Effect: %s\n", f.SpecialKind)
		if f.Amount > 0 {
			fmt.Fprintf(&b, "Amount: %d\n", f.Amount)
		}
	case engine.KindStreet, engine.KindProperty:
		fmt.Fprintf(&b, "Colour: %s\nPrice: %d\nMortgage value: %d\nBase rent: %d\nCurrent rent: %d\n",
			f.Colour, f.Price, f.MortgagePrice, f.BaseRent, f.CurrentRent)
		if f.Owner != nil {
			fmt.Fprintf(&b, "Owner: %s\n", playerName(state, *f.Owner))
		} else {
			b.WriteString("Owner: none (for sale)\n")
		}
		if f.Mortgaged {
			fmt.Fprintf(&b, "Mortgaged: yes, lifting costs %d\n", f.MortgagePrice+f.MortgagePrice/engine.MortgageRatio)
		}
		if f.Kind == engine.KindStreet {
			fmt.Fprintf(&b, "Houses: %d\nHotel: %v\nHouse cost: %d\nHotel cost: %d\n", f.Houses, f.Hotel, f.HouseCost, f.HotelCost)
		}
	}

	var here []string
	for _, p := range state.Players {
		if !p.Bankrupt && p.Position == f.ID {
			here = append(here, p.Name)
		}
	}
	if len(here) > 0 {
		fmt.Fprintf(&b, "Players here: %s\n", strings.Join(here, ", "))
	}
	return b.String()
}

func party(id int64) string {
	if id == ledger.Bank {
		return "bank"
	}
	return fmt.Sprintf("player %d", id)
}

func formatLedger(page *ledger.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ledger (Page %d/%d) | Total: %d\n\n", page.Page, page.TotalPages, page.Total)
	for _, e := range page.Entries {
		fmt.Fprintf(&b, "%d. [round %d] %s: %d from %s to %s", e.Sequence, e.Round, e.Type, e.Amount, party(e.From), party(e.To))
		if e.Note != "" {
			fmt.Fprintf(&b, " (%s)", e.Note)
		}
		b.WriteString("\n")
	}
	if page.HasNext {
		fmt.Fprintf(&b, "\nMore entries on page %d", page.Page+1)
	}
	return b.String()
}

func formatGameResult(result *service.GameResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Winner: %s with a fortune of %d after %d rounds\n\nStandings:\n",
		result.Winner.Name, result.Winner.Fortune, result.Rounds)
	for i, s := range result.Standings {
		status := ""
		if s.Bankrupt {
			status = " (bankrupt)"
		}
		fmt.Fprintf(&b, "%d. %s: fortune %d, money %d, net flow %+d%s\n", i+1, s.Name, s.Fortune, s.Money, s.NetFlow, status)
	}
	return b.String()
}

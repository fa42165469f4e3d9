// Package mcp exposes the property game to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes one REST request to
// the API server and the JSON answer is rendered as plain text for the
// agent. It never touches game state directly, so the MCP server can run
// in a different process than the game.
//
// MCP Tools:
//   - create_game, list_games, get_game, list_configs
//   - game_state: players, board and the next allowed step
//   - roll_dice, pay_rent, pay_jail_fine, buy_property, end_turn,
//     declare_bankruptcy
//   - manage_building: build or sell houses and hotels
//   - mortgage: mortgage a field or lift the mortgage
//   - describe_field, ledger, winner, game_instructions
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp on the game server, handled by GetMCPServer().HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp

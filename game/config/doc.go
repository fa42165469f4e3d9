// Package config provides board definition management.
//
// The config package handles:
//   - Loading board definitions from JSON files
//   - Validation through the engine before a definition is cached
//   - Default board selection
//   - Definition discovery and listing
//
// Board Format:
//
// Each file in the configs directory defines one board:
//   - Colour groups and their sizes
//   - Properties, optionally with street development data
//   - Special fields (start, jail, chance, tax, free parking, go to jail)
//   - The chance deck in draw order
//   - Optional rules (starting money, start bonus, jail fine, round cap)
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := manager.LoadConfig("mini")
//	defaultBoard := manager.GetDefault()
//	boards, err := manager.ListConfigs()
package config

// Package ledger records every money movement of a game in order.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryType names the kind of transaction.
type EntryType string

const (
	EntryPurchase     EntryType = "purchase"
	EntryRent         EntryType = "rent"
	EntryBuildHouse   EntryType = "build_house"
	EntrySellHouse    EntryType = "sell_house"
	EntryBuildHotel   EntryType = "build_hotel"
	EntrySellHotel    EntryType = "sell_hotel"
	EntryMortgage     EntryType = "mortgage"
	EntryLiftMortgage EntryType = "lift_mortgage"
	EntryChance       EntryType = "chance"
	EntryTax          EntryType = "tax"
	EntryStartBonus   EntryType = "start_bonus"
	EntryJailFine     EntryType = "jail_fine"
	EntryBankruptcy   EntryType = "bankruptcy"
)

// Bank is the party id used for the bank. NoField marks entries that are not
// tied to a field.
const (
	Bank    = -1
	NoField = -1
)

// Entry is one transaction. Amount moves from From to To.
type Entry struct {
	ID        string `json:"id" parquet:"id"`
	GameID    string `json:"game_id" parquet:"game_id"`
	Sequence  int64  `json:"sequence" parquet:"sequence"`
	Round     int64  `json:"round" parquet:"round"`
	Type      string `json:"type" parquet:"type"`
	From      int64  `json:"from" parquet:"from"`
	To        int64  `json:"to" parquet:"to"`
	FieldID   int64  `json:"field_id" parquet:"field_id"`
	Amount    int64  `json:"amount" parquet:"amount"`
	Note      string `json:"note,omitempty" parquet:"note,optional"`
	Timestamp int64  `json:"timestamp" parquet:"timestamp"`
}

// Ledger is an append-only, concurrency-safe list of entries for one game.
type Ledger struct {
	mu      sync.RWMutex
	gameID  string
	entries []Entry
	now     func() time.Time
}

func New(gameID string) *Ledger {
	return &Ledger{gameID: gameID, now: time.Now}
}

// Record stamps e with an id, sequence number and time and appends it.
func (l *Ledger) Record(round int, kind EntryType, from, to, fieldID, amount int, note string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{
		ID:        uuid.NewString(),
		GameID:    l.gameID,
		Sequence:  int64(len(l.entries) + 1),
		Round:     int64(round),
		Type:      string(kind),
		From:      int64(from),
		To:        int64(to),
		FieldID:   int64(fieldID),
		Amount:    int64(amount),
		Note:      note,
		Timestamp: l.now().UnixMilli(),
	}
	l.entries = append(l.entries, e)
	return e
}

// Entries returns a copy of all entries in recording order.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry(nil), l.entries...)
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Restore replaces the entries, for example after loading a saved game.
func (l *Ledger) Restore(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry(nil), entries...)
	sort.SliceStable(l.entries, func(i, j int) bool { return l.entries[i].Sequence < l.entries[j].Sequence })
}

// NetFlow is the money a party received minus what it paid.
func (l *Ledger) NetFlow(party int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	net := 0
	for _, e := range l.entries {
		if e.To == int64(party) {
			net += int(e.Amount)
		}
		if e.From == int64(party) {
			net -= int(e.Amount)
		}
	}
	return net
}

// PageOptions select a page of entries. Order is "asc" (default) or "desc".
type PageOptions struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Order  string `json:"order"`
	Type   string `json:"type,omitempty"`
	Player *int   `json:"player,omitempty"`
}

type Page struct {
	Entries     []Entry `json:"entries"`
	Total       int     `json:"total"`
	Page        int     `json:"page"`
	PageSize    int     `json:"page_size"`
	TotalPages  int     `json:"total_pages"`
	HasNext     bool    `json:"has_next"`
	HasPrevious bool    `json:"has_previous"`
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Page filters and paginates the entries.
func (l *Ledger) Page(opts PageOptions) Page {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = DefaultPageSize
	}
	if opts.Limit > MaxPageSize {
		opts.Limit = MaxPageSize
	}

	var filtered []Entry
	for _, e := range l.Entries() {
		if opts.Type != "" && e.Type != opts.Type {
			continue
		}
		if opts.Player != nil && e.From != int64(*opts.Player) && e.To != int64(*opts.Player) {
			continue
		}
		filtered = append(filtered, e)
	}
	if opts.Order == "desc" {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	total := len(filtered)
	totalPages := (total + opts.Limit - 1) / opts.Limit
	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Entries:     append([]Entry{}, filtered[start:end]...),
		Total:       total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// Package watchlist owns the persisted set of watch items. Every entry
// point sanitizes through the same ticker rules, and every mutation is
// saved before it is acknowledged.
package watchlist

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"EtfRadar/internal/model"
	"EtfRadar/internal/ticker"
)

// Manager guards the watchlist with a mutex and keeps the store in sync.
type Manager struct {
	mu    sync.Mutex
	items []model.WatchItem
	store Store
}

// NewManager loads and sanitizes the snapshot, falling back to the
// default watchlist when the store is empty or sanitizes to nothing.
func NewManager(store Store) (*Manager, error) {
	items, err := store.Load()
	if err != nil {
		return nil, err
	}
	items = ticker.SanitizeItems(items)
	if len(items) == 0 {
		items = DefaultWatchlist()
	}
	m := &Manager{items: items, store: store}
	if err := m.store.Save(m.items); err != nil {
		return nil, err
	}
	return m, nil
}

// Items returns a copy of the current watchlist.
func (m *Manager) Items() []model.WatchItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// AddTickers parses a free-form comma-delimited input and appends the
// tickers not already tracked. An input with no valid tickers is an
// error; it never reaches the list.
func (m *Manager) AddTickers(input string) ([]model.WatchItem, error) {
	parsed := ticker.ParseInput(input)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("no valid tickers in input %q", input)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := make(map[string]struct{}, len(m.items))
	for _, item := range m.items {
		existing[item.Ticker] = struct{}{}
	}
	next := m.items
	for _, t := range parsed {
		if _, dup := existing[t]; dup {
			continue
		}
		next = append(next, model.WatchItem{Ticker: t, Sector: ticker.DefaultSector})
	}
	return m.commit(next)
}

// Remove drops a ticker from the list.
func (m *Manager) Remove(symbol string) ([]model.WatchItem, error) {
	symbol = ticker.Normalize(symbol)

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]model.WatchItem, 0, len(m.items))
	found := false
	for _, item := range m.items {
		if item.Ticker == symbol {
			found = true
			continue
		}
		next = append(next, item)
	}
	if !found {
		return nil, fmt.Errorf("ticker %s is not on the watchlist", symbol)
	}
	return m.commit(next)
}

// SetSector updates one item's sector label.
func (m *Manager) SetSector(symbol, sector string) ([]model.WatchItem, error) {
	return m.update(symbol, func(item *model.WatchItem) {
		item.Sector = sector
	})
}

// SetRecommendedRSI updates one item's RSI target. An unset value clears
// the target; out-of-range values are discarded by sanitization.
func (m *Manager) SetRecommendedRSI(symbol string, rec model.Int) ([]model.WatchItem, error) {
	return m.update(symbol, func(item *model.WatchItem) {
		item.RecommendedRSI = rec
	})
}

func (m *Manager) update(symbol string, apply func(*model.WatchItem)) ([]model.WatchItem, error) {
	symbol = ticker.Normalize(symbol)

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.snapshot()
	for i := range next {
		if next[i].Ticker == symbol {
			apply(&next[i])
			return m.commit(next)
		}
	}
	return nil, fmt.Errorf("ticker %s is not on the watchlist", symbol)
}

// Replace swaps the whole list for a sanitized copy of the given items.
func (m *Manager) Replace(items []model.WatchItem) ([]model.WatchItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit(items)
}

// Export wraps the sanitized watchlist in the versioned envelope.
func (m *Manager) Export() model.WatchlistExport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.WatchlistExport{
		Version:    model.ExportVersion,
		ExportedAt: time.Now().UTC(),
		WatchItems: ticker.SanitizeItems(m.items),
	}
}

// Import replaces the watchlist from an export payload. The payload is
// validated in full before any state changes, so a bad import leaves the
// current list untouched.
func (m *Manager) Import(data []byte) ([]model.WatchItem, error) {
	items, err := ParseImport(data)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit(items)
}

// ParseImport validates an export envelope and returns its sanitized
// watch items.
func ParseImport(data []byte) ([]model.WatchItem, error) {
	var payload model.WatchlistExport
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("import payload is not a valid watchlist object: %w", err)
	}
	if payload.Version != model.ExportVersion {
		return nil, fmt.Errorf("unsupported import format: version %d", payload.Version)
	}
	items := ticker.SanitizeItems(payload.WatchItems)
	if len(items) == 0 {
		return nil, fmt.Errorf("import payload contains no usable watch items")
	}
	return items, nil
}

// commit sanitizes, persists and installs a new list. Callers hold mu.
func (m *Manager) commit(items []model.WatchItem) ([]model.WatchItem, error) {
	sanitized := ticker.SanitizeItems(items)
	if err := m.store.Save(sanitized); err != nil {
		return nil, fmt.Errorf("save watchlist: %w", err)
	}
	m.items = sanitized
	return m.snapshot(), nil
}

func (m *Manager) snapshot() []model.WatchItem {
	out := make([]model.WatchItem, len(m.items))
	copy(out, m.items)
	return out
}

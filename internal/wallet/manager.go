// ==================================
// File: internal/wallet/manager.go
// ==================================
package wallet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrWalletNotFound is returned when a wallet ID does not resolve to any
// loaded wallet.
var ErrWalletNotFound = errors.New("wallet not found")

// Manager resolves wallet identifiers to signing material. It is the in-repo
// stand-in for the external credential store and is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	wallets map[string]*Wallet
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{wallets: make(map[string]*Wallet)}
}

// LoadFromCSV loads named wallets from a CSV file with the columns
// [Name, PrivateKeyBase58]. The first row is a header. Malformed rows are
// skipped.
func (m *Manager) LoadFromCSV(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open wallets file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read wallets CSV: %w", err)
	}
	if len(records) < 2 {
		return errors.New("wallets CSV is empty or missing data")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records[1:] {
		if len(record) != 2 {
			continue
		}
		w, err := New(record[1])
		if err != nil {
			continue
		}
		m.wallets[record[0]] = w
	}
	return nil
}

// Add registers a wallet under the given ID, replacing any previous entry.
func (m *Manager) Add(id string, w *Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[id] = w
}

// Resolve returns the wallet registered under id.
func (m *Manager) Resolve(id string) (*Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, id)
	}
	return w, nil
}

// ResolveAll resolves an ordered list of wallet IDs, preserving input order.
// Fails on the first unknown ID.
func (m *Manager) ResolveAll(ids []string) ([]*Wallet, error) {
	wallets := make([]*Wallet, 0, len(ids))
	for _, id := range ids {
		w, err := m.Resolve(id)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// Len reports the number of loaded wallets.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.wallets)
}

package gesture

import (
	"fmt"
	"sort"
)

// Unknown is the label of every finger-state vector missing from the table.
const Unknown = "Unknown"

// defaultSymbols is the built-in sign vocabulary keyed by FingerStates.String.
var defaultSymbols = map[string]string{
	"00000": "Force",
	"00001": "Promesse",
	"00100": "HopHopHop",
	"00111": "OK",
	"01001": "Demon",
	"01100": "Peace",
	"10001": "Shaka",
	"11001": "RockNRoll",
}

// Symbol is one table entry.
type Symbol struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// SymbolTable maps serialized finger states to labels. It is immutable once
// constructed and safe for concurrent reads.
type SymbolTable struct {
	symbols map[string]string
}

// NewSymbolTable validates and copies the given mapping.
func NewSymbolTable(symbols map[string]string) (*SymbolTable, error) {
	m := make(map[string]string, len(symbols))
	for key, label := range symbols {
		if _, err := ParseFingerStates(key); err != nil {
			return nil, err
		}
		if label == "" {
			return nil, fmt.Errorf("symbol %q has an empty label", key)
		}
		m[key] = label
	}
	return &SymbolTable{symbols: m}, nil
}

// DefaultSymbolTable returns the built-in table.
func DefaultSymbolTable() *SymbolTable {
	t, err := NewSymbolTable(defaultSymbols)
	if err != nil {
		panic("gesture: invalid default symbol table: " + err.Error())
	}
	return t
}

// Lookup returns the label stored under key.
func (t *SymbolTable) Lookup(key string) (string, bool) {
	label, ok := t.symbols[key]
	return label, ok
}

// Len returns the number of entries.
func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// Entries returns the table sorted by key.
func (t *SymbolTable) Entries() []Symbol {
	entries := make([]Symbol, 0, len(t.symbols))
	for key, label := range t.symbols {
		entries = append(entries, Symbol{Key: key, Label: label})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Resolver turns finger states into labels using a SymbolTable.
type Resolver struct {
	table *SymbolTable
}

// NewResolver creates a Resolver backed by table.
func NewResolver(table *SymbolTable) *Resolver {
	return &Resolver{table: table}
}

// Resolve returns the label for s, or Unknown when s is not in the table.
func (r *Resolver) Resolve(s FingerStates) string {
	if label, ok := r.table.Lookup(s.String()); ok {
		return label
	}
	return Unknown
}

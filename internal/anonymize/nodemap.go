// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ANONYMIZE: Per-request reversible alias table
package anonymize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/cloudnein/internal/pii"
)

// ============================================================================
// ALIAS PREFIXES
// ============================================================================

// aliasPrefix maps an entity kind to its alias prefix. Unknown kinds get a
// generic prefix rather than an error; the map must always produce an alias.
func aliasPrefix(kind string) string {
	switch kind {
	case "PERSON_NAME":
		return "Person"
	case "SSN":
		return "SSN"
	case "EMAIL":
		return "Email"
	case "PHONE":
		return "Phone"
	case "CREDIT_CARD":
		return "Card"
	case "ACCOUNT_NUMBER":
		return "Acct"
	case "VENDOR":
		return "Vendor"
	case "CLIENT":
		return "Client"
	case "EMPLOYEE":
		return "Employee"
	default:
		return "Entity"
	}
}

// suffix returns the n-th alias suffix for a prefix: A..Z for the first 26,
// then numeric (_27, _28, ...).
func suffix(n int) string {
	if n <= 26 {
		return string(rune('A' + n - 1))
	}
	return fmt.Sprintf("_%d", n)
}

// ============================================================================
// NODEMAP
// ============================================================================

// NodeMap is a bidirectional table of real values and their aliases.
// It is request-scoped and not safe for concurrent use.
type NodeMap struct {
	toAlias  map[string]string
	toReal   map[string]string
	counters map[string]int
}

// NewNodeMap returns an empty map with fresh per-prefix counters.
func NewNodeMap() *NodeMap {
	return &NodeMap{
		toAlias:  make(map[string]string),
		toReal:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Register assigns an alias to value, or returns the existing one. The same
// value always maps to the same alias within a map, regardless of kind.
func (m *NodeMap) Register(value, kind string) string {
	if alias, ok := m.toAlias[value]; ok {
		return alias
	}
	prefix := aliasPrefix(kind)
	m.counters[prefix]++
	alias := prefix + "_" + suffix(m.counters[prefix])
	m.toAlias[value] = alias
	m.toReal[alias] = value
	return alias
}

// Count returns the number of registered values.
func (m *NodeMap) Count() int {
	return len(m.toAlias)
}

// AliasFor returns the alias for a registered value, if any.
func (m *NodeMap) AliasFor(value string) (string, bool) {
	alias, ok := m.toAlias[value]
	return alias, ok
}

// Redact replaces detected entity spans in text with aliases, registering
// each value as it goes. Spans are applied highest-start-first so earlier
// indices stay valid; they are rune indices, matching the detector.
func (m *NodeMap) Redact(text string, entities []pii.Entity) string {
	ordered := make([]pii.Entity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	runes := []rune(text)
	for _, e := range ordered {
		if e.Start < 0 || e.End > len(runes) || e.Start >= e.End {
			continue
		}
		alias := m.Register(e.Value, e.Type.String())
		runes = append(runes[:e.Start], append([]rune(alias), runes[e.End:]...)...)
	}
	return string(runes)
}

// Anonymize rewrites every registered real value in text to its alias.
// Longest values substitute first so "Acme Corp" wins over "Acme".
func (m *NodeMap) Anonymize(text string) string {
	return substitute(text, m.toAlias)
}

// DeAnonymize rewrites every alias in text back to its real value.
// Longest aliases substitute first so "Person__27" is restored before a
// shorter alias that happens to be its prefix.
func (m *NodeMap) DeAnonymize(text string) string {
	return substitute(text, m.toReal)
}

// substitute applies a replacement table longest-key-first. Key order is
// fully deterministic (length desc, then lexicographic) so repeated runs
// produce identical output.
func substitute(text string, table map[string]string) string {
	keys := make([]string, 0, len(table))
	for k := range table {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	out := text
	for _, k := range keys {
		out = strings.ReplaceAll(out, k, table[k])
	}
	return out
}

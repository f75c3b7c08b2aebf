// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package cache

import (
	"sort"
	"strings"
	"sync"
)

type trieNode struct {
	children map[rune]*trieNode
	values   map[string]struct{} // display values ending at this key
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// Trie is a thread-safe, case-insensitive prefix tree for autocomplete.
//
// Each key maps to one or more display values, so a rider can be found under
// their full name and under each surname token while Complete still returns
// the full name once.
type Trie struct {
	mu   sync.RWMutex
	root *trieNode
	keys int
}

// NewTrie creates an empty Trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Insert indexes value under key. Empty keys and values are ignored. Returns
// true when the key was new.
func (t *Trie) Insert(key, value string) bool {
	key = normalizeKey(key)
	if key == "" || value == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, ch := range key {
		next := node.children[ch]
		if next == nil {
			next = newTrieNode()
			node.children[ch] = next
		}
		node = next
	}

	isNew := node.values == nil
	if isNew {
		node.values = make(map[string]struct{}, 1)
		t.keys++
	}
	node.values[value] = struct{}{}
	return isNew
}

// InsertWords indexes value under itself and under every whitespace separated
// word after the first.
func (t *Trie) InsertWords(value string) {
	t.Insert(value, value)
	words := strings.Fields(value)
	for i := 1; i < len(words); i++ {
		t.Insert(words[i], value)
	}
}

// Complete returns up to limit distinct values whose key starts with prefix,
// sorted alphabetically. limit <= 0 means no limit. An empty prefix returns
// nothing.
func (t *Trie) Complete(prefix string, limit int) []string {
	prefix = normalizeKey(prefix)
	if prefix == "" {
		return []string{}
	}

	t.mu.RLock()
	node := t.find(prefix)
	seen := make(map[string]struct{})
	if node != nil {
		collect(node, seen)
	}
	t.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Len returns the number of distinct keys.
func (t *Trie) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.keys
}

// find walks to the node for key. Caller holds the lock.
func (t *Trie) find(key string) *trieNode {
	node := t.root
	for _, ch := range key {
		node = node.children[ch]
		if node == nil {
			return nil
		}
	}
	return node
}

func collect(node *trieNode, seen map[string]struct{}) {
	for v := range node.values {
		seen[v] = struct{}{}
	}
	for _, child := range node.children {
		collect(child, seen)
	}
}

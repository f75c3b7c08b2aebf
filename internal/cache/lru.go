// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package cache

import "time"

// node is one cache entry, linked into recency order.
type node[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *node[V]
	next      *node[V]
}

// lruList orders nodes by recency. head.next is the most recently used and
// tail.prev the least. head and tail are sentinels, so no method has to
// check for nil neighbours. Not safe for concurrent use.
type lruList[V any] struct {
	head *node[V]
	tail *node[V]
}

func newLRUList[V any]() *lruList[V] {
	l := &lruList[V]{head: &node[V]{}, tail: &node[V]{}}
	l.reset()
	return l
}

func (l *lruList[V]) reset() {
	l.head.next = l.tail
	l.tail.prev = l.head
}

func (l *lruList[V]) pushFront(n *node[V]) {
	n.prev = l.head
	n.next = l.head.next
	l.head.next.prev = n
	l.head.next = n
}

func (l *lruList[V]) moveToFront(n *node[V]) {
	l.unlink(n)
	l.pushFront(n)
}

func (l *lruList[V]) unlink(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

// oldest returns the least recently used node, or nil when empty.
func (l *lruList[V]) oldest() *node[V] {
	if l.tail.prev == l.head {
		return nil
	}
	return l.tail.prev
}

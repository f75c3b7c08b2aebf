// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

/*
Package cache provides the in-memory structures behind the rider API.

  - Cache: a generic TTL cache for search results with least recently used
    eviction, keyed with GenerateKey and cleared whenever the dataset is
    reloaded.
  - Trie: a case-insensitive prefix tree used for rider name autocomplete.

# Usage Example

	results := cache.New[*dataset.Dataset]("search", 5*time.Minute, 1000)
	defer results.Stop()

	key := cache.GenerateKey("search", filters)
	if view, ok := results.Get(key); ok {
	    return view
	}

	names := cache.NewTrie()
	names.InsertWords("Tadej Pogacar")
	names.Complete("pog", 10) // ["Tadej Pogacar"]

# Thread Safety

Both types are safe for concurrent use.
*/
package cache

// trie/trie.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package trie implements the ternary search tree behind console name
// autocompletion: prefix lookup, exact-match search, partial completion,
// and suggestion enumeration.
//
// Nodes live in an arena and refer to each other by index, so the whole
// tree can be duplicated by copying slices and removal never has to chase
// parent pointers.
package trie

import "slices"

// null marks an absent child relation.
const null int32 = -1

type node struct {
	ch                byte
	word              bool // node is the last character of an inserted word
	less, eq, greater int32
}

// Tree is a ternary search tree over byte strings. The zero value is not
// ready for use; call New.
type Tree struct {
	nodes []node
	free  []int32 // arena slots returned by pruning
	root  int32
	words int
}

func New() *Tree {
	return &Tree{root: null}
}

// Size returns the number of live nodes.
func (t *Tree) Size() int { return len(t.nodes) - len(t.free) }

// Count returns the number of distinct words in the tree.
func (t *Tree) Count() int { return t.words }

func (t *Tree) Clear() {
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = null
	t.words = 0
}

// Clone returns a deep copy; the copy and the original share no state.
func (t *Tree) Clone() *Tree {
	return &Tree{
		nodes: slices.Clone(t.nodes),
		free:  slices.Clone(t.free),
		root:  t.root,
		words: t.words,
	}
}

func (t *Tree) alloc(ch byte) int32 {
	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[idx] = node{ch: ch, less: null, eq: null, greater: null}
		return idx
	}
	t.nodes = append(t.nodes, node{ch: ch, less: null, eq: null, greater: null})
	return int32(len(t.nodes) - 1)
}

// child relations, indexed so the traversal loops can stay generic.
const (
	relLess = iota
	relEq
	relGreater
)

func (t *Tree) getChild(parent int32, rel int) int32 {
	if parent == null {
		return t.root
	}
	switch rel {
	case relLess:
		return t.nodes[parent].less
	case relEq:
		return t.nodes[parent].eq
	default:
		return t.nodes[parent].greater
	}
}

func (t *Tree) setChild(parent int32, rel int, v int32) {
	if parent == null {
		t.root = v
		return
	}
	switch rel {
	case relLess:
		t.nodes[parent].less = v
	case relEq:
		t.nodes[parent].eq = v
	default:
		t.nodes[parent].greater = v
	}
}

// Insert adds word to the tree. Inserting a word that is already present is
// a no-op; in particular Count does not change.
func (t *Tree) Insert(word string) {
	if word == "" {
		return
	}
	t.words++

	// (parent, rel) identifies the link being walked; the root link has a
	// null parent. Links are resolved lazily since alloc may grow the arena.
	parent, rel := null, relEq
	for i := 0; i < len(word); {
		cur := t.getChild(parent, rel)
		if cur == null {
			cur = t.alloc(word[i])
			t.setChild(parent, rel, cur)
		}

		switch n := &t.nodes[cur]; {
		case word[i] < n.ch:
			parent, rel = cur, relLess
		case word[i] == n.ch:
			if i == len(word)-1 {
				if n.word {
					t.words-- // reinsertion
				}
				n.word = true
			}
			parent, rel = cur, relEq
			i++
		default:
			parent, rel = cur, relGreater
		}
	}
}

// Search reports whether word was inserted (and not removed); a strict
// prefix of an inserted word does not match.
func (t *Tree) Search(word string) bool {
	if word == "" {
		return false
	}
	cur := t.root
	for i := 0; cur != null; {
		n := &t.nodes[cur]
		switch {
		case word[i] < n.ch:
			cur = n.less
		case word[i] == n.ch:
			if i == len(word)-1 {
				return n.word
			}
			cur = n.eq
			i++
		default:
			cur = n.greater
		}
	}
	return false
}

// Remove deletes word from the tree if present, pruning any subtrees left
// with neither words nor descendants. Removing an absent word leaves the
// tree unchanged; a word that is a strict prefix of another word only has
// its terminal flag cleared.
func (t *Tree) Remove(word string) {
	if word == "" {
		return
	}
	if t.removeAux(t.root, word) {
		t.freeSubtree(t.root)
		t.root = null
	}
}

// removeAux returns true if the node at cur became dead (no word flag, no
// children) and should be unlinked by the caller.
func (t *Tree) removeAux(cur int32, word string) bool {
	if cur == null {
		return false
	}
	n := &t.nodes[cur]

	if len(word) == 1 && n.ch == word[0] {
		if !n.word {
			return false // strict prefix of other words, nothing to remove
		}
		n.word = false
		t.words--
		return n.eq == null && n.less == null && n.greater == null
	}

	switch {
	case word[0] < n.ch:
		if t.removeAux(n.less, word) {
			t.freeSubtree(n.less)
			t.nodes[cur].less = null
		}
	case word[0] > n.ch:
		if t.removeAux(n.greater, word) {
			t.freeSubtree(n.greater)
			t.nodes[cur].greater = null
		}
	default:
		if t.removeAux(n.eq, word[1:]) {
			t.freeSubtree(n.eq)
			t.nodes[cur].eq = null
		}
	}

	n = &t.nodes[cur]
	return !n.word && n.eq == null && n.less == null && n.greater == null
}

func (t *Tree) freeSubtree(cur int32) {
	if cur == null {
		return
	}
	n := t.nodes[cur]
	t.freeSubtree(n.less)
	t.freeSubtree(n.eq)
	t.freeSubtree(n.greater)
	t.free = append(t.free, cur)
}

// walk returns the node matching the last character of prefix, or null.
func (t *Tree) walk(prefix string) int32 {
	cur := t.root
	for i := 0; cur != null; {
		n := &t.nodes[cur]
		switch {
		case prefix[i] < n.ch:
			cur = n.less
		case prefix[i] == n.ch:
			if i == len(prefix)-1 {
				return cur
			}
			cur = n.eq
			i++
		default:
			cur = n.greater
		}
	}
	return null
}

// Suggestions returns the words that extend prefix. If prefix is itself a
// registered word, no suggestions are offered.
func (t *Tree) Suggestions(prefix string) []string {
	if prefix == "" {
		return nil
	}
	cur := t.walk(prefix)
	if cur == null || t.nodes[cur].word {
		return nil
	}
	var out []string
	t.collect(t.nodes[cur].eq, []byte(prefix), &out)
	return out
}

// Complete extends prefix along an unambiguous chain below it, then
// returns the extended prefix together with the suggestions for the
// original prefix.
func (t *Tree) Complete(prefix string) (string, []string) {
	if prefix == "" {
		return "", nil
	}
	cur := t.walk(prefix)
	if cur == null {
		return prefix, nil
	}

	completed := prefix
	for pc := t.nodes[cur].eq; pc != null; pc = t.nodes[pc].eq {
		n := &t.nodes[pc]
		if n.eq == null || n.less != null || n.greater != null {
			break
		}
		completed += string(n.ch)
	}

	if t.nodes[cur].word {
		return completed, nil
	}
	var out []string
	t.collect(t.nodes[cur].eq, []byte(prefix), &out)
	return completed, out
}

// collect performs an in-order traversal, appending every word reachable
// below cur, each reconstructed as buffer plus the equal-chain characters.
func (t *Tree) collect(cur int32, buffer []byte, out *[]string) {
	if cur == null {
		return
	}
	n := &t.nodes[cur]

	t.collect(n.less, buffer, out)
	if n.word {
		*out = append(*out, string(append(buffer, n.ch)))
	}
	t.collect(n.eq, append(buffer, n.ch), out)
	t.collect(n.greater, buffer, out)
}

// Package index implements the inverted token indexes used for symptom and diagnosis search.
//
// An Index maps a token to the ordered list of record ids whose field contained that token
// when the record was indexed. It is derived data: the primary store stays authoritative and
// an Index can always be rebuilt from it.
package index

import "strings"

// Separator splits a symptoms or diagnosis field into tokens.
const Separator = ","

// Tokenize splits field on Separator without trimming or deduplication, so " fever" and
// "fever" are distinct tokens and an empty field yields a single empty token.
func Tokenize(field string) []string {
	return strings.Split(field, Separator)
}

// PostingList is the ordered list of record ids for one token. Duplicates are kept.
type PostingList []uint64

// Index is an inverted index from token to PostingList.
// It is not safe for concurrent use; callers serialize access.
type Index struct {
	postings map[string]PostingList
}

// New returns an empty index.
func New() *Index {
	return &Index{postings: make(map[string]PostingList)}
}

// Add appends id to the posting list of every token in field.
func (ix *Index) Add(id uint64, field string) {
	for _, tok := range Tokenize(field) {
		ix.postings[tok] = append(ix.postings[tok], id)
	}
}

// Remove drops every occurrence of id from the posting lists of the tokens in field.
// Tokens left without ids are forgotten.
func (ix *Index) Remove(id uint64, field string) {
	for _, tok := range Tokenize(field) {
		list, ok := ix.postings[tok]
		if !ok {
			continue
		}
		kept := list[:0]
		for _, v := range list {
			if v != id {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(ix.postings, tok)
			continue
		}
		ix.postings[tok] = kept
	}
}

// Lookup returns a copy of the posting list for an exact token match, or an empty list.
func (ix *Index) Lookup(token string) PostingList {
	list := ix.postings[token]
	out := make(PostingList, len(list))
	copy(out, list)
	return out
}

// Tokens reports the number of distinct tokens currently indexed.
func (ix *Index) Tokens() int { return len(ix.postings) }

// Reset forgets all postings.
func (ix *Index) Reset() {
	ix.postings = make(map[string]PostingList)
}

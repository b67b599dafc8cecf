package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_RawSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"single", "fever", []string{"fever"}},
		{"pair", "fever,cough", []string{"fever", "cough"}},
		{"untrimmed", "fever, cough", []string{"fever", " cough"}},
		{"empty token", "fever,,cough", []string{"fever", "", "cough"}},
		{"trailing separator", "fever,", []string{"fever", ""}},
		{"repeated", "fever,fever", []string{"fever", "fever"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Tokenize(tc.field))
		})
	}
}

func TestIndex_AddLookup(t *testing.T) {
	t.Parallel()
	ix := New()
	ix.Add(0, "fever,cough")
	ix.Add(1, "fever")

	assert.Equal(t, PostingList{0, 1}, ix.Lookup("fever"))
	assert.Equal(t, PostingList{0}, ix.Lookup("cough"))
	assert.Empty(t, ix.Lookup("feverish"))
	assert.NotNil(t, ix.Lookup("feverish"))
	assert.Empty(t, ix.Lookup(" cough"))
	assert.Equal(t, 2, ix.Tokens())
}

func TestIndex_DuplicatesKept(t *testing.T) {
	t.Parallel()
	ix := New()
	ix.Add(4, "fever,fever")
	assert.Equal(t, PostingList{4, 4}, ix.Lookup("fever"))

	ix.Remove(4, "fever,fever")
	assert.Empty(t, ix.Lookup("fever"))
	assert.Equal(t, 0, ix.Tokens())
}

func TestIndex_LookupReturnsCopy(t *testing.T) {
	t.Parallel()
	ix := New()
	ix.Add(1, "flu")
	got := ix.Lookup("flu")
	got[0] = 99
	assert.Equal(t, PostingList{1}, ix.Lookup("flu"))
}

func TestIndex_RemoveOnlyTargetID(t *testing.T) {
	t.Parallel()
	ix := New()
	ix.Add(0, "fever,cough")
	ix.Add(1, "fever,rash")
	ix.Add(2, "fever")

	ix.Remove(1, "fever,rash")

	assert.Equal(t, PostingList{0, 2}, ix.Lookup("fever"))
	assert.Empty(t, ix.Lookup("rash"))
	assert.Equal(t, PostingList{0}, ix.Lookup("cough"))
	assert.Equal(t, 2, ix.Tokens())
}

func TestIndex_RemoveUnknownIsNoop(t *testing.T) {
	t.Parallel()
	ix := New()
	ix.Add(0, "flu")
	ix.Remove(7, "flu,cold")
	require.Equal(t, PostingList{0}, ix.Lookup("flu"))
}

func TestIndex_Reset(t *testing.T) {
	t.Parallel()
	ix := New()
	ix.Add(0, "a,b,c")
	ix.Reset()
	assert.Equal(t, 0, ix.Tokens())
	assert.Empty(t, ix.Lookup("a"))
}

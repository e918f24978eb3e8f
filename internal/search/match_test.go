package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-autoindex/internal/model"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"the", "office", "us"}, Tokenize("  The Office\tUS "))
	assert.Empty(t, Tokenize("   "))
	assert.Equal(t, []string{"a", "b", "c"}, Tokenize("a A b a c"), "repeats kept once in first-seen order")
}

func TestScore_SubstringContainment(t *testing.T) {
	tokens := Tokenize("on season")
	// "on" is found inside "Bonus" and inside "season".
	assert.Equal(t, 1, Score(tokens, "Bonus/"))
	assert.Equal(t, 2, Score(tokens, "Season 1/"))
	assert.Equal(t, 0, Score(tokens, "Extras/"))
}

func TestPasses_HalfTokenThreshold(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      bool
	}{
		{"one token one match", "office", "The.Office.S01/", true},
		{"one token no match", "office", "Parks/", false},
		{"three tokens two matches", "a b c", "a-b", true},
		{"three tokens one match", "a b c", "a", false},
		{"four tokens two matches", "alpha beta gamma delta", "alpha beta", true},
		{"four tokens one match", "alpha beta gamma delta", "alpha", false},
		{"case insensitive", "SEASON", "season 3/", true},
		{"empty query passes", "", "anything", true},
		{"empty query passes empty candidate", "", "", true},
		{"repeated token counts once", "a a b c", "a", false},
		{"repeated token threshold over distinct tokens", "a a b", "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Passes(Tokenize(tt.query), tt.candidate))
		})
	}
}

func TestMatch_ReportsFloatThreshold(t *testing.T) {
	r := Match(Tokenize("a b c"), "a b")
	assert.Equal(t, 2, r.Count)
	assert.InDelta(t, 1.5, r.Threshold, 1e-9)
	assert.True(t, r.Passed)

	r = Match(nil, "x")
	assert.Equal(t, 0, r.Count)
	assert.Zero(t, r.Threshold)
	assert.True(t, r.Passed)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeDirectory, m)

	m, err = ParseMode("FILE")
	require.NoError(t, err)
	assert.Equal(t, ModeFile, m)

	_, err = ParseMode("both")
	assert.Error(t, err)
}

func listing(entry string, files ...string) model.DirectoryListing {
	l := model.DirectoryListing{Entry: model.DirectoryEntry(entry), URL: "http://h/" + entry}
	for _, f := range files {
		l.Files = append(l.Files, model.FileRef{URL: l.URL + f, Extension: ".mkv"})
	}
	return l
}

func TestMatcher_DirectoryMode(t *testing.T) {
	m, err := NewMatcher("season 1", ModeDirectory, nil)
	require.NoError(t, err)

	var kept []string
	for _, l := range []model.DirectoryListing{
		listing("Season%201/", "e1.mkv"),
		listing("Season%202/", "e1.mkv"),
		listing("Bonus/", "b.mkv"),
	} {
		if out, ok := m.FilterListing(l); ok {
			kept = append(kept, out.Entry.Name())
			assert.Len(t, out.Files, 1)
		}
	}
	assert.Equal(t, []string{"Season 1/", "Season 2/"}, kept)
}

func TestMatcher_FileMode(t *testing.T) {
	m, err := NewMatcher("pilot", ModeFile, nil)
	require.NoError(t, err)

	out, ok := m.FilterListing(listing("Misc/", "Pilot.mkv", "e02.mkv"))
	require.True(t, ok)
	require.Len(t, out.Files, 1)
	assert.Equal(t, "http://h/Misc/Pilot.mkv", out.Files[0].URL)

	_, ok = m.FilterListing(listing("Misc2/", "e03.mkv"))
	assert.False(t, ok)

	// The candidate is the whole URL, so a matching directory name carries
	// every file inside it.
	out, ok = m.FilterListing(listing("Pilot%20Season/", "e01.mkv", "e02.mkv"))
	require.True(t, ok)
	assert.Len(t, out.Files, 2)
}

func TestMatcher_FileModeDecodesURL(t *testing.T) {
	m, err := NewMatcher("fête", ModeFile, nil)
	require.NoError(t, err)

	_, ok := m.FilterListing(listing("x/", "f%C3%AAte.mkv"))
	assert.True(t, ok)
}

func TestMatcher_Exclude(t *testing.T) {
	m, err := NewMatcher("", ModeDirectory, []string{"*sample*"})
	require.NoError(t, err)

	out, ok := m.FilterListing(listing("Show/", "e01.mkv", "e01.SAMPLE.mkv"))
	require.True(t, ok)
	require.Len(t, out.Files, 1)
	assert.Equal(t, "e01.mkv", out.Files[0].Basename())
}

func TestNewMatcher_RejectsBadInput(t *testing.T) {
	_, err := NewMatcher("x", Mode("both"), nil)
	assert.Error(t, err)

	_, err = NewMatcher("x", ModeFile, []string{"[unclosed"})
	assert.Error(t, err)
}

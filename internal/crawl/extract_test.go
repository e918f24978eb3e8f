package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-autoindex/internal/model"
)

const autoindexPage = `<html><head><title>Index of /shows/</title></head><body>
<h1>Index of /shows/</h1>
<pre><a href="?C=N;O=D">Name</a>
<a href="../">Parent Directory</a>
<a href="Season%201/">Season 1/</a>
<a href="Season%202/">Season 2/</a>
<a>no href</a>
<a href="">empty</a>
<a href="Bonus/">Bonus/</a>
<a href="Episode.01.MKV">Episode.01.MKV</a>
<a href="episode.02.mp4">episode.02.mp4</a>
<a href="notes.txt">notes.txt</a>
<a href="mp4/">mp4/</a>
</pre></body></html>`

func TestParseAnchors_DocumentOrderWithoutEmptyHrefs(t *testing.T) {
	hrefs, err := ParseAnchors([]byte(autoindexPage))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"?C=N;O=D",
		"../",
		"Season%201/",
		"Season%202/",
		"Bonus/",
		"Episode.01.MKV",
		"episode.02.mp4",
		"notes.txt",
		"mp4/",
	}, hrefs)
}

func TestExtractSubdirectories(t *testing.T) {
	hrefs, err := ParseAnchors([]byte(autoindexPage))
	require.NoError(t, err)

	dirs := ExtractSubdirectories(hrefs)
	assert.Equal(t, []model.DirectoryEntry{"../", "Season%201/", "Season%202/", "Bonus/", "mp4/"}, dirs)
	for _, d := range dirs {
		assert.Equal(t, byte('/'), d[len(d)-1])
	}
}

func TestExtractSubdirectories_KeepsDuplicates(t *testing.T) {
	dirs := ExtractSubdirectories([]string{"a/", "b", "a/"})
	assert.Equal(t, []model.DirectoryEntry{"a/", "a/"}, dirs)
}

func TestExtractFiles_CaseInsensitiveSuffix(t *testing.T) {
	hrefs, err := ParseAnchors([]byte(autoindexPage))
	require.NoError(t, err)

	files := ExtractFiles("http://host/shows/Bonus/", hrefs, []string{".mp4", ".mkv", ".avi"})
	require.Len(t, files, 2)
	assert.Equal(t, model.FileRef{URL: "http://host/shows/Bonus/Episode.01.MKV", Extension: ".mkv"}, files[0])
	assert.Equal(t, model.FileRef{URL: "http://host/shows/Bonus/episode.02.mp4", Extension: ".mp4"}, files[1])
}

func TestExtractFiles_UppercaseConfiguredExtension(t *testing.T) {
	files := ExtractFiles("http://h/d/", []string{"a.AVI", "b.avi", "c.avi.txt"}, []string{".AVI"})
	require.Len(t, files, 2)
	assert.Equal(t, "http://h/d/a.AVI", files[0].URL)
	assert.Equal(t, "http://h/d/b.avi", files[1].URL)
}

func TestExtractFiles_NoExtensions(t *testing.T) {
	assert.Empty(t, ExtractFiles("http://h/d/", []string{"a.mp4"}, nil))
}

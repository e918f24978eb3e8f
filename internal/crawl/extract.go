package crawl

import (
	"strings"

	"go-autoindex/internal/model"
)

// ExtractSubdirectories keeps every href that ends with "/", in page order.
func ExtractSubdirectories(hrefs []string) []model.DirectoryEntry {
	var dirs []model.DirectoryEntry
	for _, href := range hrefs {
		if strings.HasSuffix(href, "/") {
			dirs = append(dirs, model.DirectoryEntry(href))
		}
	}
	return dirs
}

// ExtractFiles keeps every href whose lowercase form ends with one of exts
// and resolves it against dirURL by concatenation.
func ExtractFiles(dirURL string, hrefs []string, exts []string) []model.FileRef {
	lowered := make([]string, len(exts))
	for i, ext := range exts {
		lowered[i] = strings.ToLower(ext)
	}

	var files []model.FileRef
	for _, href := range hrefs {
		lower := strings.ToLower(href)
		for i, ext := range lowered {
			if ext == "" || !strings.HasSuffix(lower, ext) {
				continue
			}
			files = append(files, model.FileRef{
				URL:       dirURL + href,
				Extension: exts[i],
			})
			break
		}
	}
	return files
}

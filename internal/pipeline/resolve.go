package pipeline

import (
	"net/url"
	"path"
	"strings"
)

// DocRef identifies a stored document by blob name and download URL.
type DocRef struct {
	Name string
	URL  string
}

// resolveDoc fills whichever of blobURL and blobName is missing. A bare name
// is placed under {accountURL}/{container}; a bare URL is named by its last
// path segment.
func resolveDoc(blobURL, blobName, accountURL, container string) (DocRef, bool) {
	blobURL = strings.TrimSpace(blobURL)
	blobName = strings.TrimSpace(blobName)
	if blobURL == "" && blobName == "" {
		return DocRef{}, false
	}
	if blobURL == "" {
		blobURL = strings.TrimRight(accountURL, "/") + "/" + container + "/" + blobName
	}
	if blobName == "" {
		blobName = lastSegment(blobURL)
		if blobName == "" {
			return DocRef{}, false
		}
	}
	return DocRef{Name: blobName, URL: blobURL}, true
}

func lastSegment(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// ABOUTME: Reserved URL conventions used between the reader core and the browser surface
// ABOUTME: Covers loader trampolines, snippets, e-books and compound key derivation

package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const (
	// InternalScheme is the scheme reserved for URLs that never hit the network.
	InternalScheme = "internal"
	internalHost   = "local"

	loaderPath     = "/load/reader"
	loaderQueryKey = "reader-url"
	snippetPath    = "/snippet"
	snippetKey     = "key"

	// BlankURL is the empty/home document.
	BlankURL = "about:blank"
)

func parse(raw string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return u
}

func isInternal(u *url.URL, p string) bool {
	return u != nil && u.Scheme == InternalScheme && u.Host == internalHost && u.Path == p
}

// IsLoaderURL reports whether raw is a loader trampoline URL.
func IsLoaderURL(raw string) bool {
	return isInternal(parse(raw), loaderPath)
}

// LoaderURL builds the loader trampoline URL for contentURL.
func LoaderURL(contentURL string) string {
	q := url.Values{}
	q.Set(loaderQueryKey, contentURL)
	return InternalScheme + "://" + internalHost + loaderPath + "?" + q.Encode()
}

// ReaderURL resolves a loader trampoline URL to the content URL it wraps.
// Any other URL is returned unchanged.
func ReaderURL(raw string) string {
	u := parse(raw)
	if !isInternal(u, loaderPath) {
		return raw
	}
	target := u.Query().Get(loaderQueryKey)
	if target == "" {
		return raw
	}
	return target
}

// IsSnippetURL reports whether raw addresses ephemeral snippet content.
func IsSnippetURL(raw string) bool {
	return isInternal(parse(raw), snippetPath)
}

// SnippetURL builds the snippet URL for key.
func SnippetURL(key string) string {
	q := url.Values{}
	q.Set(snippetKey, key)
	return InternalScheme + "://" + internalHost + snippetPath + "?" + q.Encode()
}

// IsInternalURL reports whether raw uses the internal scheme.
func IsInternalURL(raw string) bool {
	u := parse(raw)
	return u != nil && u.Scheme == InternalScheme
}

// IsAboutURL reports whether raw uses the about scheme.
func IsAboutURL(raw string) bool {
	u := parse(raw)
	return u != nil && strings.EqualFold(u.Scheme, "about")
}

// IsEBookURL reports whether raw points at an e-book rendered by a native viewer.
func IsEBookURL(raw string) bool {
	u := parse(raw)
	if u == nil {
		return false
	}
	if u.Scheme == "ebook" || u.Scheme == "ebook-url" {
		return true
	}
	return strings.EqualFold(path.Ext(u.Path), ".epub")
}

// IsBlobURL reports whether raw is a blob URL.
func IsBlobURL(raw string) bool {
	u := parse(raw)
	return u != nil && u.Scheme == "blob"
}

// IsFileURL reports whether raw is a local file URL.
func IsFileURL(raw string) bool {
	u := parse(raw)
	return u != nil && u.Scheme == "file"
}

// IsNativeViewURL reports whether raw is shown by a native view rather than HTML.
func IsNativeViewURL(raw string) bool {
	return IsEBookURL(raw) || IsBlobURL(raw)
}

// IsHTTPURL reports whether raw can be fetched over the network.
func IsHTTPURL(raw string) bool {
	u := parse(raw)
	return u != nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func normalize(raw string) string {
	u := parse(ReaderURL(raw))
	if u == nil {
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	} else if u.Path == "/" {
		u.Path = ""
	}
	return u.String()
}

// MatchesReaderURL is the loose comparison used for pending loads: loader
// trampolines resolve to their content URL, and fragments and trailing
// slashes are ignored.
func MatchesReaderURL(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return normalize(a) == normalize(b)
}

// CompoundKey derives the cross-kind identity for a record URL.
func CompoundKey(raw string) string {
	if IsSnippetURL(raw) {
		if key := parse(raw).Query().Get(snippetKey); key != "" {
			return key
		}
	}
	if raw == "" || IsAboutURL(raw) {
		return strings.ToUpper(uuid.New().String())
	}
	return fmt.Sprintf("%016X", xxhash.Sum64String(raw))
}

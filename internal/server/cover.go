package server

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	coverHitTTL  = 24 * time.Hour
	coverMissTTL = time.Hour
)

type coverEntry struct {
	url     string
	expires time.Time
}

// coverCache memoizes resolver results per artist/album pair. Hits live for a
// day; misses for an hour, so newly uploaded art is picked up without
// hammering the archive for albums that have none.
type coverCache struct {
	mu      sync.Mutex
	entries map[string]coverEntry
}

func newCoverCache() *coverCache {
	return &coverCache{entries: make(map[string]coverEntry)}
}

func coverKey(artist, album string) string {
	return strings.ToLower(strings.TrimSpace(artist)) + "\x00" + strings.ToLower(strings.TrimSpace(album))
}

func (c *coverCache) get(key string, now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || now.After(entry.expires) {
		delete(c.entries, key)
		return "", false
	}
	return entry.url, true
}

func (c *coverCache) put(key, url string, now time.Time) {
	ttl := coverHitTTL
	if url == "" {
		ttl = coverMissTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = coverEntry{url: url, expires: now.Add(ttl)}
}

// handleCover resolves album art for an artist/album pair. The response shape
// is always {"image": <url-or-null>}; resolver failures degrade to null
// rather than an error status so the page can render without art.
func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	artist := strings.TrimSpace(r.URL.Query().Get("artist"))
	album := strings.TrimSpace(r.URL.Query().Get("album"))

	if artist == "" || album == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"image": nil})
		return
	}

	now := time.Now()
	key := coverKey(artist, album)

	url, cached := s.cache.get(key, now)
	if !cached {
		var err error
		url, err = s.covers.Resolve(r.Context(), artist, album)
		if err != nil {
			s.logger.Warn("cover resolution failed", "artist", artist, "album", album, "error", err)
			url = ""
		}
		s.cache.put(key, url, now)
	}

	if url == "" {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		writeJSON(w, http.StatusOK, map[string]any{"image": nil})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeJSON(w, http.StatusOK, map[string]any{"image": url})
}

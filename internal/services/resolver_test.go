package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"vinylvault/internal/shared"
)

// fakeArchive scripts the Cover Art Archive endpoints a scenario needs.
// Everything not scripted answers 404.
type fakeArchive struct {
	groupManifests   map[string]string
	releaseManifests map[string]string
	frontProbes      map[string]bool
}

func (f *fakeArchive) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("HEAD /release/{id}/front", func(w http.ResponseWriter, r *http.Request) {
		if f.frontProbes[r.PathValue("id")] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /release/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeManifest(w, f.releaseManifests[r.PathValue("id")])
	})
	mux.HandleFunc("GET /release-group/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeManifest(w, f.groupManifests[r.PathValue("id")])
	})
	return mux
}

func writeManifest(w http.ResponseWriter, image string) {
	if image == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Write([]byte(`{"images": [{"front": true, "image": "` + image + `"}]}`))
}

func testResolver(t *testing.T, mbHandler http.Handler, archive *fakeArchive) *CoverResolver {
	t.Helper()

	mbServer := httptest.NewServer(mbHandler)
	t.Cleanup(mbServer.Close)
	caaServer := httptest.NewServer(archive.handler(t))
	t.Cleanup(caaServer.Close)

	mb := testMusicBrainz(mbServer.URL)
	caa := NewCoverArtService("dev@example.com")
	caa.baseURL = caaServer.URL

	return NewCoverResolver(mb, caa, log.New(io.Discard))
}

func TestCoverResolver(t *testing.T) {
	t.Run("ReleaseGroupFrontWins", func(t *testing.T) {
		mb := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"release-groups": [{"id": "rg-1"}], "releases": []}`))
		})
		archive := &fakeArchive{
			groupManifests: map[string]string{"rg-1": "https://img.example.com/rg.jpg"},
		}

		url, err := testResolver(t, mb, archive).Resolve(context.Background(), "Miles Davis", "Kind of Blue")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if url != "https://img.example.com/rg.jpg" {
			t.Errorf("expected release group art, got %q", url)
		}
	})

	t.Run("FallsBackToBrowsedReleaseProbe", func(t *testing.T) {
		mb := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Has("release-group") {
				w.Write([]byte(`{"releases": [{"id": "rel-1"}, {"id": "rel-2"}]}`))
				return
			}
			w.Write([]byte(`{"release-groups": [{"id": "rg-1"}]}`))
		})
		archive := &fakeArchive{
			frontProbes: map[string]bool{"rel-2": true},
		}

		resolver := testResolver(t, mb, archive)
		url, err := resolver.Resolve(context.Background(), "Miles Davis", "Kind of Blue")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		want := resolver.caa.FrontURL("rel-2")
		if url != want {
			t.Errorf("expected canonical front %q, got %q", want, url)
		}
	})

	t.Run("FallsBackToDirectReleaseSearch", func(t *testing.T) {
		mb := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/release-group" {
				w.Write([]byte(`{"release-groups": []}`))
				return
			}
			w.Write([]byte(`{"releases": [{"id": "rel-9"}]}`))
		})
		archive := &fakeArchive{
			releaseManifests: map[string]string{"rel-9": "https://img.example.com/rel9.jpg"},
		}

		url, err := testResolver(t, mb, archive).Resolve(context.Background(), "Miles Davis", "Kind of Blue")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if url != "https://img.example.com/rel9.jpg" {
			t.Errorf("expected direct search art, got %q", url)
		}
	})

	t.Run("ExhaustedChainIsNotAnError", func(t *testing.T) {
		mb := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"release-groups": [], "releases": []}`))
		})

		url, err := testResolver(t, mb, &fakeArchive{}).Resolve(context.Background(), "Nobody", "Nothing")
		if err != nil {
			t.Fatalf("miss should not be an error: %v", err)
		}
		if url != "" {
			t.Errorf("expected empty URL, got %q", url)
		}
	})

	t.Run("UpstreamFailuresDegrade", func(t *testing.T) {
		mb := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		url, err := testResolver(t, mb, &fakeArchive{}).Resolve(context.Background(), "Miles Davis", "Kind of Blue")
		if err != nil {
			t.Fatalf("upstream outage should degrade, not fail: %v", err)
		}
		if url != "" {
			t.Errorf("expected empty URL, got %q", url)
		}
	})

	t.Run("BlankInputRejectedBeforeNetwork", func(t *testing.T) {
		var calls atomic.Int32
		mb := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		})

		_, err := testResolver(t, mb, &fakeArchive{}).Resolve(context.Background(), "  ", "Kind of Blue")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if calls.Load() != 0 {
			t.Errorf("expected no network traffic, got %d requests", calls.Load())
		}
	})
}

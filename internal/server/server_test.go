package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"vinylvault/internal/models"
	"vinylvault/internal/repositories"
	"vinylvault/internal/shared"
)

const testAdminToken = "test-admin-token"

// stubCovers scripts Resolve answers per "artist|album" key.
type stubCovers struct {
	urls  map[string]string
	err   error
	calls int
}

func (s *stubCovers) Resolve(ctx context.Context, artist, album string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.urls[artist+"|"+album], nil
}

func testServer(t *testing.T, covers *stubCovers) (*Server, *repositories.RecordRepository) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	feed := repositories.NewChangeFeed()
	repo := repositories.NewRecordRepository(db, feed)

	config := shared.DefaultConfig()
	config.Server.AdminToken = testAdminToken

	if covers == nil {
		covers = &stubCovers{}
	}

	return New(config, repo, feed, covers, log.New(io.Discard)), repo
}

func seedRecord(t *testing.T, repo *repositories.RecordRepository, artist, album string) *models.Record {
	t.Helper()

	rec := models.NewRecord(0, artist, album)
	if err := repo.Create(rec); err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}
	return rec
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t, nil)

	w := doRequest(t, s, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestRecordsEndpoint(t *testing.T) {
	t.Run("ListAppliesControls", func(t *testing.T) {
		s, repo := testServer(t, nil)
		seedRecord(t, repo, "Miles Davis", "Kind of Blue")
		abbey := seedRecord(t, repo, "The Beatles", "Abbey Road")
		abbey.SetFavorite(true)
		if err := repo.Update(abbey); err != nil {
			t.Fatalf("failed to update: %v", err)
		}

		w := doRequest(t, s, http.MethodGet, "/api/records?favs=1", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp struct {
			Records []recordJSON `json:"records"`
			Total   int          `json:"total"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if resp.Total != 1 || resp.Records[0].Album != "Abbey Road" {
			t.Errorf("expected only the favorite, got %+v", resp)
		}
	})

	t.Run("CostHiddenWithoutAdmin", func(t *testing.T) {
		s, repo := testServer(t, nil)
		rec := seedRecord(t, repo, "Miles Davis", "Kind of Blue")
		cost := 2500
		rec.SetCostCents(&cost)
		if err := repo.Update(rec); err != nil {
			t.Fatalf("failed to update: %v", err)
		}

		w := doRequest(t, s, http.MethodGet, "/api/records", "", nil)
		if strings.Contains(w.Body.String(), "cost_cents") {
			t.Errorf("cost should be hidden from anonymous callers: %s", w.Body.String())
		}

		w = doRequest(t, s, http.MethodGet, "/api/records", testAdminToken, nil)
		if !strings.Contains(w.Body.String(), `"cost_cents":2500`) {
			t.Errorf("cost should be visible to admin: %s", w.Body.String())
		}
	})

	t.Run("CreateRequiresAdmin", func(t *testing.T) {
		s, _ := testServer(t, nil)
		payload := map[string]any{"artist": "Miles Davis", "album": "Kind of Blue"}

		w := doRequest(t, s, http.MethodPost, "/api/records", "", payload)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 without token, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "not authenticated") {
			t.Errorf("expected not-authenticated error body, got %s", w.Body.String())
		}

		w = doRequest(t, s, http.MethodPost, "/api/records", "wrong-token", payload)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 with wrong token, got %d", w.Code)
		}

		w = doRequest(t, s, http.MethodPost, "/api/records", testAdminToken, payload)
		if w.Code != http.StatusCreated {
			t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("CreateValidates", func(t *testing.T) {
		s, _ := testServer(t, nil)

		w := doRequest(t, s, http.MethodPost, "/api/records", testAdminToken, map[string]any{"artist": "", "album": "x"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for blank artist, got %d", w.Code)
		}
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		s, repo := testServer(t, nil)
		rec := seedRecord(t, repo, "Miles Davis", "Kind of Blue")

		payload := map[string]any{"artist": "Miles Davis", "album": "Kind of Blue", "is_favorite": true}
		w := doRequest(t, s, http.MethodPut, "/api/records/"+rec.ID(), testAdminToken, payload)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		updated, err := repo.Get(rec.ID())
		if err != nil {
			t.Fatalf("failed to reload record: %v", err)
		}
		if !updated.IsFavorite() {
			t.Error("expected favorite flag to persist")
		}

		w = doRequest(t, s, http.MethodDelete, "/api/records/"+rec.ID(), testAdminToken, nil)
		if w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}

		w = doRequest(t, s, http.MethodDelete, "/api/records/"+rec.ID(), testAdminToken, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for missing record, got %d", w.Code)
		}
	})
}

func TestCoverEndpoint(t *testing.T) {
	t.Run("MissingParams", func(t *testing.T) {
		s, _ := testServer(t, nil)

		w := doRequest(t, s, http.MethodGet, "/api/cover?artist=Miles+Davis", "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"image":null`) {
			t.Errorf("expected null image, got %s", w.Body.String())
		}
	})

	t.Run("HitAndCache", func(t *testing.T) {
		covers := &stubCovers{urls: map[string]string{
			"Miles Davis|Kind of Blue": "https://img.example.com/front.jpg",
		}}
		s, _ := testServer(t, covers)

		path := "/api/cover?artist=Miles+Davis&album=Kind+of+Blue"
		w := doRequest(t, s, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "front.jpg") {
			t.Errorf("expected image URL, got %s", w.Body.String())
		}
		if got := w.Header().Get("Cache-Control"); got != "public, max-age=86400" {
			t.Errorf("unexpected Cache-Control: %q", got)
		}

		doRequest(t, s, http.MethodGet, path, "", nil)
		if covers.calls != 1 {
			t.Errorf("expected cached second lookup, resolver called %d times", covers.calls)
		}
	})

	t.Run("ResolverFailureDegrades", func(t *testing.T) {
		covers := &stubCovers{err: fmt.Errorf("upstream down")}
		s, _ := testServer(t, covers)

		w := doRequest(t, s, http.MethodGet, "/api/cover?artist=A&album=B", "", nil)
		if w.Code != http.StatusOK {
			t.Errorf("resolver failure should still answer 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"image":null`) {
			t.Errorf("expected null image, got %s", w.Body.String())
		}
		if got := w.Header().Get("Cache-Control"); got != "public, max-age=3600" {
			t.Errorf("unexpected Cache-Control on miss: %q", got)
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	t.Run("SpendGatedByAdmin", func(t *testing.T) {
		s, repo := testServer(t, nil)
		rec := seedRecord(t, repo, "Miles Davis", "Kind of Blue")
		cost := 2500
		rec.SetCostCents(&cost)
		if err := repo.Update(rec); err != nil {
			t.Fatalf("failed to update: %v", err)
		}

		w := doRequest(t, s, http.MethodGet, "/api/stats", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "spend") {
			t.Errorf("spend should be hidden from anonymous callers: %s", w.Body.String())
		}

		w = doRequest(t, s, http.MethodGet, "/api/stats", testAdminToken, nil)
		if !strings.Contains(w.Body.String(), `"total_cents":2500`) {
			t.Errorf("expected spend for admin: %s", w.Body.String())
		}
	})
}

func TestStatsStream(t *testing.T) {
	s, repo := testServer(t, nil)
	seedRecord(t, repo, "Miles Davis", "Kind of Blue")

	server := httptest.NewServer(s.Handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/stats/stream", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream, got %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("failed to read event: %v", err)
			}
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				return data
			}
		}
	}

	first := readEvent()
	if !strings.Contains(first, `"total_units":1`) {
		t.Errorf("expected initial snapshot with 1 unit, got %s", first)
	}

	seedRecord(t, repo, "The Beatles", "Abbey Road")

	second := readEvent()
	if !strings.Contains(second, `"total_units":2`) {
		t.Errorf("expected refreshed snapshot with 2 units, got %s", second)
	}
}

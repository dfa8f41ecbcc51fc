package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"vinylvault/internal/shared"
)

const coverArtBaseURL = "https://coverartarchive.org"

type coverArtImage struct {
	Front bool   `json:"front"`
	Image string `json:"image"`
}

type coverArtManifest struct {
	Images []coverArtImage `json:"images"`
}

// CoverArtService queries the Cover Art Archive. The archive is keyed by
// MusicBrainz identifiers and needs no authentication or throttling.
type CoverArtService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewCoverArtService creates a client identifying itself with the given
// contact address.
func NewCoverArtService(contact string) *CoverArtService {
	return &CoverArtService{
		baseURL:    coverArtBaseURL,
		userAgent:  fmt.Sprintf("vinylvault/%s (%s)", Version, contact),
		httpClient: http.DefaultClient,
	}
}

// ReleaseGroupFront returns the front image URL for a release group, or ""
// when the archive has no art for it.
func (s *CoverArtService) ReleaseGroupFront(ctx context.Context, releaseGroupID string) (string, error) {
	return s.frontFromManifest(ctx, "/release-group/"+releaseGroupID)
}

// ReleaseFront returns the front image URL for a single release, or "" when
// the archive has no art for it.
func (s *CoverArtService) ReleaseFront(ctx context.Context, releaseID string) (string, error) {
	return s.frontFromManifest(ctx, "/release/"+releaseID)
}

// FrontExists probes a release's canonical front image with a HEAD request.
// The probe is much cheaper than fetching the image manifest.
func (s *CoverArtService) FrontExists(ctx context.Context, releaseID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.baseURL+"/release/"+releaseID+"/front", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400, nil
}

// FrontURL returns the canonical front image address for a release. The
// archive serves it as a redirect to the actual file, so it stays valid even
// when the image is replaced.
func (s *CoverArtService) FrontURL(releaseID string) string {
	return s.baseURL + "/release/" + releaseID + "/front"
}

func (s *CoverArtService) frontFromManifest(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// The archive answers 404 for anything it has no art for.
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: cover art archive status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var manifest coverArtManifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	for _, img := range manifest.Images {
		if img.Front && img.Image != "" {
			return img.Image, nil
		}
	}
	return "", nil
}

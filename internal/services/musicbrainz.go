package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"vinylvault/internal/shared"
)

const musicBrainzBaseURL = "https://musicbrainz.org/ws/2"

// MBArtistCredit is one credited artist on a release or release group.
type MBArtistCredit struct {
	Name string `json:"name"`
}

// MBReleaseGroup represents a MusicBrainz release group (an "album" across
// all of its pressings).
type MBReleaseGroup struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Score        int              `json:"score"`
	ArtistCredit []MBArtistCredit `json:"artist-credit"`
}

// MBRelease represents a single MusicBrainz release (one pressing/edition).
type MBRelease struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type releaseGroupSearchResponse struct {
	ReleaseGroups []MBReleaseGroup `json:"release-groups"`
}

type releaseListResponse struct {
	Releases []MBRelease `json:"releases"`
}

// MusicBrainzService queries the MusicBrainz web service.
//
// Every request waits on the politeness limiter first; MusicBrainz asks
// anonymous clients to stay at or below one request per second.
type MusicBrainzService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewMusicBrainzService creates a client identifying itself with the given
// contact address, throttled to requestsPerSec.
func NewMusicBrainzService(contact string, requestsPerSec float64) *MusicBrainzService {
	return &MusicBrainzService{
		baseURL:    musicBrainzBaseURL,
		userAgent:  fmt.Sprintf("vinylvault/%s (%s)", Version, contact),
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSec), 1),
	}
}

// SearchReleaseGroups runs a fielded search for an album by artist and title,
// best matches first.
func (s *MusicBrainzService) SearchReleaseGroups(ctx context.Context, artist, album string, limit int) ([]MBReleaseGroup, error) {
	var result releaseGroupSearchResponse
	endpoint := "/release-group?" + searchParams(artist, album, limit).Encode()
	if err := s.doRequest(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result.ReleaseGroups, nil
}

// SearchReleases runs a fielded search for individual releases by artist and
// title. Used as the fallback when the release-group route finds no art.
func (s *MusicBrainzService) SearchReleases(ctx context.Context, artist, album string, limit int) ([]MBRelease, error) {
	var result releaseListResponse
	endpoint := "/release?" + searchParams(artist, album, limit).Encode()
	if err := s.doRequest(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result.Releases, nil
}

// BrowseReleases lists the releases belonging to a release group.
func (s *MusicBrainzService) BrowseReleases(ctx context.Context, releaseGroupID string, limit int) ([]MBRelease, error) {
	params := url.Values{}
	params.Set("release-group", releaseGroupID)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))

	var result releaseListResponse
	if err := s.doRequest(ctx, "/release?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Releases, nil
}

func searchParams(artist, album string, limit int) url.Values {
	query := fmt.Sprintf("artist:%q AND release:%q", escapeLucene(artist), escapeLucene(album))

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))
	return params
}

// escapeLucene neutralizes quote characters so user input cannot break out of
// the quoted search term.
func escapeLucene(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// doRequest performs a throttled GET against the MusicBrainz API and decodes
// the JSON response into result.
func (s *MusicBrainzService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: musicbrainz status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

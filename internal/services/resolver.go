package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"vinylvault/internal/shared"
)

const (
	releaseGroupSearchLimit = 5
	releaseSearchLimit      = 5
	releaseBrowseLimit      = 10
)

// CoverResolver finds album art by walking MusicBrainz and the Cover Art
// Archive, most-authoritative source first:
//
//  1. search release groups, take the best match
//  2. ask the archive for the release group's front image
//  3. otherwise browse the group's releases and probe each canonical front
//  4. otherwise read each release's image manifest
//  5. otherwise search releases directly and probe those
//
// Any step that errors is logged and skipped; the chain only gives up when
// every source is exhausted. Resolve therefore degrades to "no cover" rather
// than failing.
type CoverResolver struct {
	mb     *MusicBrainzService
	caa    *CoverArtService
	logger *log.Logger
}

var _ CoverSource = (*CoverResolver)(nil)

// NewCoverResolver creates a resolver over the two metadata clients.
func NewCoverResolver(mb *MusicBrainzService, caa *CoverArtService, logger *log.Logger) *CoverResolver {
	return &CoverResolver{mb: mb, caa: caa, logger: logger}
}

// Resolve returns the cover image URL for an artist/album pair, or "" when no
// source has one. Blank inputs are rejected before any network traffic.
func (r *CoverResolver) Resolve(ctx context.Context, artist, album string) (string, error) {
	artist = strings.TrimSpace(artist)
	album = strings.TrimSpace(album)
	if artist == "" || album == "" {
		return "", shared.ErrInvalidInput
	}

	if url := r.viaReleaseGroup(ctx, artist, album); url != "" {
		return url, nil
	}
	if url := r.viaReleaseSearch(ctx, artist, album); url != "" {
		return url, nil
	}

	r.logger.Debug("no cover found", "artist", artist, "album", album)
	return "", nil
}

func (r *CoverResolver) viaReleaseGroup(ctx context.Context, artist, album string) string {
	groups, err := r.mb.SearchReleaseGroups(ctx, artist, album, releaseGroupSearchLimit)
	if err != nil {
		r.logger.Debug("release group search failed", "artist", artist, "error", err)
		return ""
	}
	if len(groups) == 0 {
		return ""
	}

	group := groups[0]

	if url, err := r.caa.ReleaseGroupFront(ctx, group.ID); err != nil {
		r.logger.Debug("release group art lookup failed", "rgid", group.ID, "error", err)
	} else if url != "" {
		return url
	}

	releases, err := r.mb.BrowseReleases(ctx, group.ID, releaseBrowseLimit)
	if err != nil {
		r.logger.Debug("release browse failed", "rgid", group.ID, "error", err)
		return ""
	}

	return r.probeReleases(ctx, releases)
}

func (r *CoverResolver) viaReleaseSearch(ctx context.Context, artist, album string) string {
	releases, err := r.mb.SearchReleases(ctx, artist, album, releaseSearchLimit)
	if err != nil {
		r.logger.Debug("release search failed", "artist", artist, "error", err)
		return ""
	}
	return r.probeReleases(ctx, releases)
}

// probeReleases checks each release for a front image: the cheap canonical
// HEAD probe first, then the full image manifest.
func (r *CoverResolver) probeReleases(ctx context.Context, releases []MBRelease) string {
	for _, release := range releases {
		ok, err := r.caa.FrontExists(ctx, release.ID)
		if err != nil {
			r.logger.Debug("front probe failed", "release", release.ID, "error", err)
		} else if ok {
			return r.caa.FrontURL(release.ID)
		}

		url, err := r.caa.ReleaseFront(ctx, release.ID)
		if err != nil {
			r.logger.Debug("release art lookup failed", "release", release.ID, "error", err)
			continue
		}
		if url != "" {
			return url
		}
	}
	return ""
}

package services

import "context"

// Version is reported in the User-Agent of outgoing API requests.
const Version = "0.1.0"

// CoverSource resolves a cover image URL for an artist/album pair.
//
// An empty URL with a nil error means the lookup ran but found nothing;
// callers should treat that as a cacheable miss, not a failure.
type CoverSource interface {
	Resolve(ctx context.Context, artist, album string) (string, error)
}

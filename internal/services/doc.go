// Package services contains the HTTP clients for the external metadata APIs:
// MusicBrainz for release lookup and the Cover Art Archive for album art.
//
// Both are anonymous, unauthenticated APIs with strict politeness rules, so
// the MusicBrainz client carries a descriptive User-Agent with a contact
// address and rate-limits itself. CoverResolver composes the two clients into
// the lookup chain used by the cover endpoint and the backfill command.
package services

// Package simplesocial provides a reusable library for staging creator
// content into per-platform post candidates and computing a conflict-free,
// heuristically optimized publish schedule across social platforms.
//
// It exposes a single Service interface that orchestrates content
// normalization (caption/hashtag generation with deterministic fallback
// templates, validation against per-platform limits), engagement prediction,
// time-slot ranking with collision avoidance, and hashtag supplementation.
// Implementations of the pluggable collaborators (caption generator, optimal
// time advisor, rate limiter, repository, media store) are provided under
// subpackages.
//
// # Degraded Mode
//
// Every call into an external collaborator has a deterministic fallback: if
// the caption generator or time advisor is unreachable, rate limited, times
// out, or returns a malformed response, staging and scheduling proceed on
// fixed templates and a static slot table. A slow collaborator degrades
// output quality but never fails a batch.
package simplesocial

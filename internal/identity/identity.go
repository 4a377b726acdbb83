// Package identity resolves a stable identifier for the current user: a
// platform-supplied numeric FID when the embedding host provides one, or a
// locally persisted anonymous fingerprint otherwise.
package identity

import (
	"fmt"
	"log"
	"math/rand/v2"
)

// StorageKey is the fixed key the anonymous identifier is cached under.
const StorageKey = "spicy_confessions_user_id"

// PlatformContext carries the only field this system reads from the embedding
// host's context: the numeric user identity. A nil context, or a nil UserFID,
// is valid input and means "no platform identity".
type PlatformContext struct {
	UserFID *int64
}

type kind int

const (
	kindNone kind = iota
	kindPlatform
	kindAnonymous
)

// Identity is either a platform FID or an anonymous string identifier, never
// both. The zero value means no identity.
type Identity struct {
	kind kind
	fid  int64
	anon string
}

func Platform(fid int64) Identity {
	return Identity{kind: kindPlatform, fid: fid}
}

func Anonymous(id string) Identity {
	return Identity{kind: kindAnonymous, anon: id}
}

// FID returns the platform identity, if that is what this is.
func (id Identity) FID() (int64, bool) {
	return id.fid, id.kind == kindPlatform
}

// Anonymous returns the anonymous identifier, if that is what this is.
func (id Identity) Anonymous() (string, bool) {
	return id.anon, id.kind == kindAnonymous
}

func (id Identity) IsZero() bool {
	return id.kind == kindNone
}

func (id Identity) String() string {
	switch id.kind {
	case kindPlatform:
		return fmt.Sprintf("fid:%d", id.fid)
	case kindAnonymous:
		return id.anon
	default:
		return "none"
	}
}

// Signals are the stable environment features the anonymous fingerprint is
// derived from.
type Signals struct {
	Agent    string
	Screen   string
	Locale   string
	Timezone string
}

// Resolver derives the current user's identity, preferring the platform FID
// and falling back to a persisted anonymous identifier.
type Resolver struct {
	store   Store
	signals Signals
}

func NewResolver(store Store, signals Signals) *Resolver {
	return &Resolver{store: store, signals: signals}
}

// Resolve returns the platform identity when the context supplies one.
// Otherwise it reuses the stored anonymous identifier, or synthesizes a new
// one and persists it. A store failure degrades to a session-scoped
// identifier rather than an error.
func (r *Resolver) Resolve(ctx *PlatformContext) Identity {
	if ctx != nil && ctx.UserFID != nil {
		return Platform(*ctx.UserFID)
	}

	if r.store != nil {
		if existing, ok := r.store.Get(StorageKey); ok && existing != "" {
			return Anonymous(existing)
		}
	}

	id := Synthesize(r.signals)

	if r.store != nil {
		if err := r.store.Set(StorageKey, id); err != nil {
			log.Printf("identity: could not persist anonymous identifier: %v", err)
		}
	}
	return Anonymous(id)
}

// Synthesize builds a fresh anonymous identifier of the form
// anon_<hash>_<salt>: a non-cryptographic hash of the stable environment
// signals plus a random salt for uniqueness across users that share them.
func Synthesize(signals Signals) string {
	str := fmt.Sprintf("%s-%s-%s-%s", signals.Agent, signals.Screen, signals.Locale, signals.Timezone)
	salt := rand.IntN(1_000_000)
	return fmt.Sprintf("anon_%d_%d", abs(fingerprintHash(str)), salt)
}

// fingerprintHash is the classic h = h*31 + c string hash, kept at 32 bits so
// identifiers minted here match ones minted by the web client from the same
// signals.
func fingerprintHash(s string) int32 {
	var h int32
	for _, c := range s {
		h = (h << 5) - h + int32(c)
	}
	return h
}

func abs(n int32) int64 {
	if n < 0 {
		return -int64(n)
	}
	return int64(n)
}

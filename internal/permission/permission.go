// Package permission maps caller identities to permission tiers.
//
// Tiers are a flat integer scale: 0 means no special permission, 1 to 9
// grant restricted commands and 10 or more grant admin commands.
package permission

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	TierNone       = 0
	TierRestricted = 1
	TierAdmin      = 10
)

// Class is the access class a command belongs to.
type Class int

const (
	Open Class = iota
	Restricted
	Admin
)

func (c Class) String() string {
	switch c {
	case Open:
		return "open"
	case Restricted:
		return "restricted"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// MinTier is the lowest tier admitted to the class.
func (c Class) MinTier() int {
	switch c {
	case Restricted:
		return TierRestricted
	case Admin:
		return TierAdmin
	default:
		return TierNone
	}
}

// Allows reports whether tier is enough for the class.
func (c Class) Allows(tier int) bool {
	return tier >= c.MinTier()
}

// TierSource is the part of the store the gate reads.
type TierSource interface {
	GetTier(ctx context.Context, identity string) (int, error)
}

// Gate resolves identities to tiers. It never caches: every call reads the
// store so grants and revokes apply immediately.
type Gate struct {
	src TierSource
}

func NewGate(src TierSource) *Gate {
	return &Gate{src: src}
}

// Lookup returns the stored tier of identity, with the store error if any.
func (g *Gate) Lookup(ctx context.Context, identity string) (int, error) {
	return g.src.GetTier(ctx, identity)
}

// TierOf returns the tier of identity. Lookup failures count as TierNone.
func (g *Gate) TierOf(ctx context.Context, identity string) int {
	tier, err := g.src.GetTier(ctx, identity)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("identity", identity).Msg("tier lookup failed")
		return TierNone
	}
	return tier
}

func (g *Gate) HasRestrictedAccess(ctx context.Context, identity string) bool {
	return Restricted.Allows(g.TierOf(ctx, identity))
}

func (g *Gate) HasAdminAccess(ctx context.Context, identity string) bool {
	return Admin.Allows(g.TierOf(ctx, identity))
}

// TierStore can read and write tiers.
type TierStore interface {
	TierSource
	SetTier(ctx context.Context, identity string, tier int) error
}

// SeedAdmins raises each identity to TierAdmin. Identities already at or
// above TierAdmin are left alone, so configured admins never lose a higher
// tier on restart.
func SeedAdmins(ctx context.Context, s TierStore, identities []string) error {
	for _, id := range identities {
		if id == "" {
			continue
		}
		tier, err := s.GetTier(ctx, id)
		if err != nil {
			return fmt.Errorf("seed admin %s: %w", id, err)
		}
		if tier >= TierAdmin {
			continue
		}
		if err := s.SetTier(ctx, id, TierAdmin); err != nil {
			return fmt.Errorf("seed admin %s: %w", id, err)
		}
	}
	return nil
}

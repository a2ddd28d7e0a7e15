package service

import "context"

// Tier is a per-user keyed blob store. Both the volatile and the durable
// storage tier implement it.
type Tier interface {
	// Read returns found=false and a nil error when key is absent.
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	Write(ctx context.Context, key string, value []byte) error
}

func ThemeKey(userID string) string   { return "theme_" + userID }
func LayoutKey(userID string) string  { return "layout_" + userID }
func ProfileKey(userID string) string { return "profile_" + userID }
func EmbedsKey(userID string) string  { return "embeds_" + userID }

// PublicKey addresses the published read-only snapshot of a portfolio.
func PublicKey(username string) string { return "public_" + username }

// UsernameKey maps a public handle to the id of the user holding it.
func UsernameKey(username string) string { return "username_" + username }

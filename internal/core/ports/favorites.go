package ports

import "context"

// FavoriteLog is the append-only record of user favorites. Writes must
// be at-least-once: duplicates on retry are acceptable, loss is not.
type FavoriteLog interface {
	Append(ctx context.Context, sessionID, input string) error
}

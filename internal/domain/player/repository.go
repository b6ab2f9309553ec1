package player

import "context"

// Repository stores the harvest roster. Replace drops the previous roster.
type Repository interface {
	Replace(ctx context.Context, players []Player) error
	ListPUUIDs(ctx context.Context) ([]string, error)
}

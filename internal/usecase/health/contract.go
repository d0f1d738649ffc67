package health

import "context"

// DBPinger checks row store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SearchPinger checks search engine availability.
type SearchPinger interface {
	Ping(ctx context.Context) error
}

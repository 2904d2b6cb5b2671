// Package delivery defines the contract shared by the transport servers.
package delivery

import "context"

// Delivery is a long-running transport endpoint, managed by the fx lifecycle.
type Delivery interface {
	// Serve blocks until the endpoint stops or fails.
	Serve(ctx context.Context) error
}

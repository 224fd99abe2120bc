package port

import "context"

type HTTPProbePort interface {
	// Get requests url and returns the response status code.
	Get(ctx context.Context, url string) (int, error)
}

package apiclient

import (
	"context"

	"github.com/go-faster/jx"
)

// The fetch helpers pair Client.Request with a decoder. A response that does
// not decode is logged with its endpoint, the same as a failed exchange.

func fetchList[T any](ctx context.Context, c *Client, endpoint string, opts Options, fn func(d *jx.Decoder) (T, error)) ([]T, error) {
	raw, err := c.Request(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	v, err := decodeList(raw, fn)
	if err != nil {
		return nil, c.logFailure(endpoint, err)
	}
	return v, nil
}

func fetchObject[T any](ctx context.Context, c *Client, endpoint string, opts Options, fn func(d *jx.Decoder) (T, error)) (T, error) {
	raw, err := c.Request(ctx, endpoint, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := decodeObject(raw, fn)
	if err != nil {
		return v, c.logFailure(endpoint, err)
	}
	return v, nil
}

// fetchOptional is fetchObject for endpoints that may answer without a body,
// in which case the result is nil.
func fetchOptional[T any](ctx context.Context, c *Client, endpoint string, opts Options, fn func(d *jx.Decoder) (T, error)) (*T, error) {
	raw, err := c.Request(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	v, err := optionalObject(raw, fn)
	if err != nil {
		return nil, c.logFailure(endpoint, err)
	}
	return v, nil
}

package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

const maxBodySize = 1 << 16

type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// decodeBody calls fn for every top-level field of the JSON object body.
func decodeBody(r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return badRequest("read body: %v", err)
	}
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return badRequest("body must be a JSON object")
	}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		return fn(d, string(key))
	}); err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			return err
		}
		return badRequest("invalid body: %v", err)
	}
	return nil
}

// decodeID reads an id given as a string or a number.
func decodeID(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", badRequest("id must be a string or a number")
	}
}

func decodeInt(d *jx.Decoder) (int, error) {
	if d.Next() != jx.Number {
		return 0, badRequest("expected an integer")
	}
	n, err := d.Num()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, badRequest("expected an integer, got %s", n.String())
	}
	return v, nil
}

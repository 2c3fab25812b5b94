package resources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
)

// Doer sends a JSON request through an authenticated session. *auth.Client satisfies it.
type Doer interface {
	DoJSON(ctx context.Context, method, path string, in, out any) error
}

// Collection is CRUD over one REST collection rooted at path (e.g. "/nurses/")
type Collection[T any] struct {
	doer Doer
	path string
}

func NewCollection[T any](doer Doer, path string) *Collection[T] {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return &Collection[T]{doer: doer, path: path}
}

// Path returns the collection path
func (c *Collection[T]) Path() string {
	return c.path
}

// ItemPath returns the path of the record with id
func (c *Collection[T]) ItemPath(id int64) string {
	return c.path + strconv.FormatInt(id, 10) + "/"
}

// List returns every record. Both bare arrays and paginated {"results": [...]} bodies are accepted.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var raw json.RawMessage
	if err := c.doer.DoJSON(ctx, http.MethodGet, c.path, nil, &raw); err != nil {
		return nil, autherrors.Wrapf(err, "[List] %s", c.path)
	}
	return decodeList[T](raw)
}

func (c *Collection[T]) Get(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := c.doer.DoJSON(ctx, http.MethodGet, c.ItemPath(id), nil, &item); err != nil {
		return nil, autherrors.Wrapf(err, "[Get] %s", c.ItemPath(id))
	}
	return &item, nil
}

func (c *Collection[T]) Create(ctx context.Context, item *T) (*T, error) {
	var created T
	if err := c.doer.DoJSON(ctx, http.MethodPost, c.path, item, &created); err != nil {
		return nil, autherrors.Wrapf(err, "[Create] %s", c.path)
	}
	return &created, nil
}

// Update replaces the record with id
func (c *Collection[T]) Update(ctx context.Context, id int64, item *T) (*T, error) {
	var updated T
	if err := c.doer.DoJSON(ctx, http.MethodPut, c.ItemPath(id), item, &updated); err != nil {
		return nil, autherrors.Wrapf(err, "[Update] %s", c.ItemPath(id))
	}
	return &updated, nil
}

// Patch changes only the given fields of the record with id
func (c *Collection[T]) Patch(ctx context.Context, id int64, fields map[string]any) (*T, error) {
	var updated T
	if err := c.doer.DoJSON(ctx, http.MethodPatch, c.ItemPath(id), fields, &updated); err != nil {
		return nil, autherrors.Wrapf(err, "[Patch] %s", c.ItemPath(id))
	}
	return &updated, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	if err := c.doer.DoJSON(ctx, http.MethodDelete, c.ItemPath(id), nil, nil); err != nil {
		return autherrors.Wrapf(err, "[Delete] %s", c.ItemPath(id))
	}
	return nil
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] == '{' {
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("%w: %w", autherrors.ErrMalformedResponse, err)
		}
		if page.Results == nil {
			return nil, fmt.Errorf("%w: expected a list or a paginated object", autherrors.ErrMalformedResponse)
		}
		raw = page.Results
	}
	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", autherrors.ErrMalformedResponse, err)
	}
	return items, nil
}

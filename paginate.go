package avela

import (
	"context"
	"encoding/json"
	"net/url"
	"path"
	"strconv"

	"github.com/tidwall/gjson"
)

// maxPageSize is the API's hard cap on records per page.
const maxPageSize = 1000

// pageConfig holds configuration for a paginated traversal.
type pageConfig struct {
	pageSize int
	maxItems int
	itemsKey string
	query    url.Values
}

// PageOption configures a paginated traversal.
type PageOption func(*pageConfig)

// WithPageSize sets how many records each page requests. Values above the
// API maximum of 1000 are clamped. Default: 1000.
func WithPageSize(size int) PageOption {
	return func(c *pageConfig) {
		c.pageSize = size
	}
}

// WithMaxItems stops iteration after yielding this many items.
func WithMaxItems(max int) PageOption {
	return func(c *pageConfig) {
		c.maxItems = max
	}
}

// WithItemsKey overrides the response envelope key the items live under.
// Default: the trailing segment of the request path.
func WithItemsKey(key string) PageOption {
	return func(c *pageConfig) {
		c.itemsKey = key
	}
}

// WithPageQuery adds filter parameters sent with every page request.
func WithPageQuery(values url.Values) PageOption {
	return func(c *pageConfig) {
		for key, vals := range values {
			for _, v := range vals {
				c.query.Add(key, v)
			}
		}
	}
}

// Paginator walks an offset/limit collection lazily: each page is fetched
// on demand through the full request pipeline, so paginated traffic is
// paced and retried like any other call. Iteration ends at the first short
// page. A finished Paginator stays finished; create a new one to re-read.
//
//	p := client.Applicants(avela.WithPageSize(500))
//	for p.Next(ctx) {
//	    handle(p.Item())
//	}
//	if err := p.Err(); err != nil {
//	    return err
//	}
type Paginator struct {
	client   *Client
	path     string
	query    url.Values
	itemsKey string
	pageSize int
	maxItems int

	offset  int
	buf     []json.RawMessage
	idx     int
	yielded int
	item    json.RawMessage
	done    bool
	err     error
}

// Paginate starts a traversal of the collection at path. The envelope key
// defaults to the trailing path segment ("/applicants" → "applicants").
func (c *Client) Paginate(p string, opts ...PageOption) *Paginator {
	cfg := &pageConfig{
		pageSize: maxPageSize,
		query:    url.Values{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.pageSize <= 0 || cfg.pageSize > maxPageSize {
		cfg.pageSize = maxPageSize
	}
	if cfg.itemsKey == "" {
		cfg.itemsKey = path.Base(p)
	}

	return &Paginator{
		client:   c,
		path:     p,
		query:    cfg.query,
		itemsKey: cfg.itemsKey,
		pageSize: cfg.pageSize,
		maxItems: cfg.maxItems,
	}
}

// Next advances to the next item, fetching the next page when the buffer
// runs out. It returns false at the end of the collection, at the item cap,
// or on error; check Err afterwards.
func (p *Paginator) Next(ctx context.Context) bool {
	if p.err != nil {
		return false
	}
	if p.maxItems > 0 && p.yielded >= p.maxItems {
		p.done = true
		return false
	}
	if p.idx >= len(p.buf) {
		if p.done || !p.fetch(ctx) {
			return false
		}
	}

	p.item = p.buf[p.idx]
	p.idx++
	p.yielded++
	return true
}

// Item returns the item Next advanced to, as raw JSON.
func (p *Paginator) Item() json.RawMessage {
	return p.item
}

// Err returns the error that ended iteration, if any.
func (p *Paginator) Err() error {
	return p.err
}

// Count returns how many items have been yielded so far.
func (p *Paginator) Count() int {
	return p.yielded
}

// All drains the remaining items into a slice.
func (p *Paginator) All(ctx context.Context) ([]json.RawMessage, error) {
	var items []json.RawMessage
	for p.Next(ctx) {
		items = append(items, p.Item())
	}
	return items, p.Err()
}

// fetch requests the next page. It reports whether the buffer now holds at
// least one item. A short page (including an empty or absent envelope)
// marks the traversal done.
func (p *Paginator) fetch(ctx context.Context) bool {
	query := url.Values{}
	for key, vals := range p.query {
		query[key] = vals
	}
	query.Set("limit", strconv.Itoa(p.pageSize))
	query.Set("offset", strconv.Itoa(p.offset))

	resp, err := p.client.Get(ctx, p.path, WithQuery(query))
	if err != nil {
		p.err = err
		p.done = true
		return false
	}

	items := gjson.GetBytes(resp.Body, p.itemsKey).Array()
	page := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		page = append(page, json.RawMessage(item.Raw))
	}

	p.buf = page
	p.idx = 0
	p.offset += p.pageSize
	if len(page) < p.pageSize {
		p.done = true
	}
	return len(page) > 0
}

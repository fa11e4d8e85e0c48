package avela

// Applicants traverses GET /applicants for the credential's enrollment
// scope. Each item is one applicant object, verbatim.
func (c *Client) Applicants(opts ...PageOption) *Paginator {
	return c.Paginate("/applicants", opts...)
}

// WithReferenceIDs filters applicants by external reference IDs. The API
// takes the filter as a repeated reference_id parameter.
func WithReferenceIDs(ids ...string) PageOption {
	return func(cfg *pageConfig) {
		for _, id := range ids {
			cfg.query.Add("reference_id", id)
		}
	}
}

// WithFilter adds an arbitrary repeated filter parameter to a traversal.
func WithFilter(key string, values ...string) PageOption {
	return func(cfg *pageConfig) {
		for _, v := range values {
			cfg.query.Add(key, v)
		}
	}
}

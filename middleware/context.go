package middleware

// Context keys shared across the analytics middleware chain and handlers.
const (
	// CtxCacheHit is set true by the cache middleware when a request is
	// answered from cache; the monitor reads it after the chain unwinds.
	CtxCacheHit = "analytics_cache_hit"
	// CtxRequestID carries the per-request UUID assigned by the monitor.
	CtxRequestID = "analytics_request_id"
	// CtxResultCount is set by handlers to the number of rows returned.
	CtxResultCount = "analytics_result_count"
	// CtxDBQueries is set by handlers to the number of store queries executed.
	CtxDBQueries = "analytics_db_queries"
)

package omn

/*
Middleware applied to every request on the huma API.
*/

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

// Response header carrying the id assigned to each request.
const HDR_REQUEST_ID string = "X-Request-Id"

// logRequests tags each request with a fresh id and logs one access line once the handler returns.
func (s *Server) logRequests(ctx huma.Context, next func(huma.Context)) {
	reqID := uuid.NewString()
	ctx.SetHeader(HDR_REQUEST_ID, reqID)

	start := time.Now()
	next(ctx)

	s.log.Info().
		Str("request id", reqID).
		Str("method", ctx.Method()).
		Str("path", ctx.URL().Path).
		Int("status", ctx.Status()).
		Dur("elapsed", time.Since(start)).
		Msg("request served")
}

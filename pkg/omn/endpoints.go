package omn

/*
This file contains the endpoint constants, the request/response shapes for each
endpoint, and the handlers bound to them by buildEndpoints().

Handlers funnel the error types of the stand-in dependencies (see
pkg/core/fakes) into the HErr* constructors of errors.go. That funneling is the
whole point of this service.
*/

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/onelson/omn/pkg/core/fakes/database"
	"github.com/onelson/omn/pkg/core/fakes/restapi"
)

const (
	_API_NAME    string = "omn"
	_API_VERSION string = "0.1.0"
)

// Content type served by every endpoint (and expected by the static request subroutines).
const CONTENT_TYPE string = "application/json"

type Endpoint = string

const (
	// Serves the settings the server was configured with.
	EP_INFO Endpoint = "/"
	// Serves name/version/uptime info about the running server.
	EP_STATUS Endpoint = "/status"
	// Runs a query against the backing database and serves the records.
	EP_RECORDS Endpoint = "/db"
	// Fetches a quote from the upstream quote service and serves it.
	EP_QUOTE Endpoint = "/quote"
)

// Status codes returned by each endpoint on success.
const (
	EXPECTED_STATUS_INFO    int = 200
	EXPECTED_STATUS_STATUS  int = 200
	EXPECTED_STATUS_RECORDS int = 200
	EXPECTED_STATUS_QUOTE   int = 200
)

//#region request/response shapes

// Response for GET /.
// Since Settings carries json tags it can be served automatically.
type InfoResp struct {
	// any fields outside of the body are expected to be in the header
	// we don't really plan to make use of the header
	Body Settings
}

// Response for GET /status.
type StatusResp struct {
	Body struct {
		Name    string `json:"name" example:"omn" doc:"name of the service"`
		Version string `json:"version" example:"0.1.0" doc:"version of the service"`
		Uptime  string `json:"uptime" example:"1m5s45ms" doc:"how long the server has been accepting requests"`
	}
}

// Response for GET /db.
type RecordsResp struct {
	Body struct {
		Data []int32 `json:"data" example:"[0,0,0]" doc:"records returned by the query"`
	}
}

// Response for GET /quote.
type QuoteResp struct {
	Body restapi.Quote
}

//#endregion request/response shapes

// buildEndpoints installs the middleware and registers a handler for each endpoint on the huma API.
// Called once, during construction.
func (s *Server) buildEndpoints() {
	s.endpoint.api.UseMiddleware(s.logRequests)

	huma.Register(s.endpoint.api, huma.Operation{
		OperationID: "info",
		Method:      "GET",
		Path:        EP_INFO,
		Summary:     "service settings",
		Description: "Returns the settings this server was configured with.",
	}, s.handleInfo)

	huma.Register(s.endpoint.api, huma.Operation{
		OperationID: "status",
		Method:      "GET",
		Path:        EP_STATUS,
		Summary:     "service status",
		Description: "Returns name, version, and uptime of the running server.",
	}, s.handleStatus)

	huma.Register(s.endpoint.api, huma.Operation{
		OperationID: "records",
		Method:      "GET",
		Path:        EP_RECORDS,
		Summary:     "query the database",
		Description: "Runs a canned query against the backing database and returns the records.",
		Errors:      []int{500},
	}, s.handleRecords)

	huma.Register(s.endpoint.api, huma.Operation{
		OperationID: "quote",
		Method:      "GET",
		Path:        EP_QUOTE,
		Summary:     "fetch a quote",
		Description: "Fetches a quote from the upstream quote service.",
		Errors:      []int{451, 502},
	}, s.handleQuote)
}

//#region handlers

// handleInfo answers GET / with the serialized settings.
func (s *Server) handleInfo(_ context.Context, _ *struct{}) (*InfoResp, error) {
	return &InfoResp{Body: s.settings}, nil
}

// handleStatus answers GET /status with basic liveness info.
func (s *Server) handleStatus(_ context.Context, _ *struct{}) (*StatusResp, error) {
	resp := &StatusResp{}
	resp.Body.Name = _API_NAME
	resp.Body.Version = _API_VERSION
	resp.Body.Uptime = time.Since(s.started).Round(time.Millisecond).String()
	return resp, nil
}

// handleRecords answers GET /db by connecting to the backing database and running a canned query.
// Every database error collapses to the same opaque 500; the underlying error is only logged.
func (s *Server) handleRecords(_ context.Context, _ *struct{}) (*RecordsResp, error) {
	conn, err := database.GetConnection(s.settings.DBURL, s.dbOpts...)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to connect to database")
		return nil, HErrDatabase()
	}

	results, err := database.RunQuery[[]int32](conn, "give me some numbers")
	if err != nil {
		s.log.Error().Err(err).Msg("query failed")
		return nil, HErrDatabase()
	}

	resp := &RecordsResp{}
	resp.Body.Data = results
	return resp, nil
}

// handleQuote answers GET /quote by fetching from the upstream quote service.
// A rate-limited upstream is surfaced as 451; anything else it throws becomes an opaque 502.
func (s *Server) handleQuote(ctx context.Context, _ *struct{}) (*QuoteResp, error) {
	q, err := s.quotes.Quote(ctx)
	if errors.Is(err, restapi.ErrRateLimited) {
		s.log.Warn().Msg("quote upstream rate limited us")
		return nil, HErrUnlucky()
	} else if err != nil {
		s.log.Error().Err(err).Msg("failed to fetch quote")
		return nil, HErrQuoteUpstream()
	}

	return &QuoteResp{Body: q}, nil
}

//#endregion handlers

package omn

/*
The brain and body of the service, this file defines the Server class, options
for configuring it, and the defaults it uses.
*/

import (
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/onelson/omn/pkg/core/fakes/database"
	"github.com/onelson/omn/pkg/core/fakes/restapi"
	"github.com/rs/zerolog"
)

// Default TTL for cached quote responses.
// <= 0 disables the cache entirely.
const DEFAULT_QUOTE_CACHE_TTL time.Duration = 30 * time.Second

/*
A single instance of the omn server.
Owns the huma API, the settings shared with each handler, and the clients for
the stand-in dependencies. Should be constructed via NewServer().
*/
type Server struct {
	log      *zerolog.Logger // output logger
	settings Settings
	started  time.Time // when Start() was called; drives the /status uptime field

	endpoint struct {
		api  huma.API
		mux  *http.ServeMux
		http http.Server
	}

	quotes       *restapi.Client       // client for hitting the upstream quote service
	fakeUpstream *restapi.FakeUpstream // non-nil iff we own an in-process quote upstream

	quoteCacheTTL time.Duration
	dbOpts        []database.Option // forwarded to every GetConnection call

	dead atomic.Bool // has this server been terminated?
}

// ServerOption is a function to set various options on the server.
// Uses defaults if an option is not set.
type ServerOption func(*Server)

//#region options

// SetLogger overrides the default, verbose logger.
// To disable logging, pass a disabled zerolog logger.
func SetLogger(l *zerolog.Logger) ServerOption {
	if l == nil {
		panic("cannot set logger to nil")
	}
	return func(s *Server) {
		s.log = l
	}
}

// SetHumaAPI overrides the default huma API instance.
// NOTE(_): This option is applied before routes are built, meaning routes will be built onto it, potentially destructively.
func SetHumaAPI(api huma.API) ServerOption {
	return func(s *Server) {
		s.endpoint.api = api
	}
}

// SetQuoteCacheTTL overrides DEFAULT_QUOTE_CACHE_TTL.
func SetQuoteCacheTTL(ttl time.Duration) ServerOption {
	return func(s *Server) {
		s.quoteCacheTTL = ttl
	}
}

// SetDBOptions sets options forwarded to the database lib on every connection.
// Primarily useful for pinning the lib's clock in tests.
func SetDBOptions(opts ...database.Option) ServerOption {
	return func(s *Server) {
		s.dbOpts = opts
	}
}

//#endregion options

// NewServer spawns and returns a new server instance.
//
// Optionally takes additional options to modify the state of the server.
// Conflicting options prefer options latter.
func NewServer(settings Settings, opts ...ServerOption) (*Server, error) {
	if settings.DBURL == "" {
		return nil, ErrMissingDBURL
	}

	// set defaults
	s := &Server{
		settings: settings,
		endpoint: struct {
			api  huma.API
			mux  *http.ServeMux
			http http.Server
		}{
			mux: http.NewServeMux(),
		},
		quoteCacheTTL: DEFAULT_QUOTE_CACHE_TTL,
	}

	// apply the given options
	for _, opt := range opts {
		opt(s)
	}

	// if logger was not set by the options, use the default logger
	if s.log == nil {
		l := zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}).With().
			Timestamp().
			Caller().
			Logger().Level(zerolog.DebugLevel)
		s.log = &l
	}

	// if the api handler was not set by the options, use the default handler
	if s.endpoint.api == nil {
		s.endpoint.api = humago.New(s.endpoint.mux, huma.DefaultConfig(_API_NAME, _API_VERSION))
	}

	// if no upstream quote service was configured, run our own fake one
	quoteURL := s.settings.QuoteURL
	if quoteURL == "" {
		s.fakeUpstream = restapi.NewFakeUpstream()
		quoteURL = s.fakeUpstream.URL()
		s.log.Debug().Str("url", quoteURL).Msg("no quote upstream configured; spun up fake upstream")
	}
	s.quotes = restapi.NewClient(quoteURL, restapi.WithCacheTTL(s.quoteCacheTTL))

	s.buildEndpoints()

	s.log.Debug().Func(s.LogDump).Msg("new server created")

	return s, nil
}

//#region getters

// Settings returns the settings the server was constructed with.
func (s *Server) Settings() Settings {
	return s.settings
}

// Addr returns the host:port the server binds to.
func (s *Server) Addr() string {
	return s.settings.Addr()
}

//#endregion getters

//#region methods

// Start causes the http api listener to begin serving.
// Includes a small start up delay to ensure the server is ready by the time this function returns.
// A terminated server cannot be restarted; construct a new one instead.
func (s *Server) Start() error {
	if s.dead.Load() {
		return ErrDead
	}
	s.started = time.Now()
	s.log.Info().Str("address", s.Addr()).Msg("listening...")

	s.endpoint.http = http.Server{
		Addr:    s.Addr(),
		Handler: s.endpoint.mux,
	}
	go s.endpoint.http.ListenAndServe()
	time.Sleep(100 * time.Millisecond) // give the server time to start up before returning
	return nil
}

// Terminate kills the server, cleaning up all resources and closing the API listener.
// Ineffectual if already terminated.
func (s *Server) Terminate() {
	if !s.dead.CompareAndSwap(false, true) {
		return
	}
	s.quotes.Close()
	if s.fakeUpstream != nil {
		s.fakeUpstream.Close()
	}

	err := s.endpoint.http.Close()
	s.log.Info().Str("address", s.Addr()).AnErr("close error", err).Msg("killed http server")
}

// LogDump pretty prints the state of the server into the given zerolog event.
// Intended to be given to *zerolog.Event.Func().
func (s *Server) LogDump(e *zerolog.Event) {
	e.Str("address", s.Addr()).
		Str("db url", s.settings.DBURL).
		Bool("owns fake upstream", s.fakeUpstream != nil).
		Dur("quote cache ttl", s.quoteCacheTTL)
}

//#endregion methods

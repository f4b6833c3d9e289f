package omn

/*
Static errors for ease of use and consistency.

HErrs are errors wrapped in the tidings of Huma such that they carry the status
code Huma should respond with. They are the only error shapes handlers are
allowed to return; anything a stand-in dependency throws must be funneled into
one of them (and logged, if the details matter).
*/

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

//#region Errors

// DB_URL was not set in the environment.
var ErrMissingDBURL = errors.New(ENV_DB_URL + " must be set")

// this server has been terminated.
var ErrDead = errors.New("this server is dead")

// ErrBadPort indicates that the PORT env var could not be parsed as a port number.
type ErrBadPort struct {
	Raw string
}

func (e ErrBadPort) Error() string {
	return fmt.Sprintf("%s must be a valid port number (given %q)", ENV_PORT, e.Raw)
}

//#endregion Errors

//#region Huma Errors

// The database lib failed us.
// We don't want the details of the error being presented to the outside world;
// the caller is expected to log the underlying error instead.
func HErrDatabase() error {
	return huma.Error500InternalServerError("Some kind of DB problem.")
}

// The upstream quote service told us to back off.
func HErrUnlucky() error {
	return huma.NewError(http.StatusUnavailableForLegalReasons, "Very Unlucky!")
}

// The upstream quote service was unreachable or spoke nonsense.
// As with the database, details stay server-side.
func HErrQuoteUpstream() error {
	return huma.Error502BadGateway("quote service is misbehaving")
}

//#endregion Huma Errors

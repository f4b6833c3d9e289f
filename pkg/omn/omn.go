/*
The omn package is the guts of omn-server, a small demonstration service.
The meat of the package is the Server type, which can be spun up via omn.NewServer().
Call the static subroutines (ex: Info()) to make requests of a running server.

The handlers lean on the stand-in dependencies under pkg/core/fakes so they have
multiple foreign error types to funnel into the single error surface defined in errors.go.
*/
package omn

/*
Package fakes collects packages that represent deps you might have in your project.

Often libs will provide their own error types. These stand-ins do the same so
as to serve as an illustration of how to juggle varied error types within a
single function body by funneling them into a single type via errors.Is/As and
the error constructors of the consuming package.

See the database and restapi subpackages.
*/
package fakes

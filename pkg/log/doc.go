/*
Package log provides the registry's shared structured logger.

A single global zerolog.Logger is configured once at process start
(cmd/registryd's Init call) and components derive child loggers from it
with WithComponent / WithTeamID / WithServiceID so every log line carries
enough context to grep for without re-deriving it per call site.
*/
package log

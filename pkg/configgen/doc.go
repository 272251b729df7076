/*
Package configgen implements the registry's config generator: a
deterministic pipeline that loads a service's aggregated registry state
(ports, env-config, dependencies, routes, infra resources) and renders it
into one of three artifacts — a Docker Compose service block, a Spring-
style application config, or a plaintext reference header — then upserts
the result into a versioned Config Template keyed by (service, type,
environment).

# Rendering

Compose and application-config rendering build a small ordered document
model (yamlnode.go's mapping/sequence/scalar helpers around
gopkg.in/yaml.v3's yaml.Node) rather than marshaling a plain
map[string]interface{} — Go map iteration order is random and yaml.v3
sorts plain-map keys alphabetically, neither of which gives the caller
control over key order, and the Compose spec requires services to appear
in startup order, not alphabetical order. Every map field below is built
as an explicit ordered list of (key, value) pairs.

Reference-header rendering has no structural format to preserve and uses
a plain strings.Builder, line-oriented, each line prefixed "# ", rather
than a templating engine.

# Versioning

Each (service, type, environment) key has a monotonically increasing
version: GenerateX loads the existing template for that key (if any),
overwrites its content and increments its version, or creates a new one
at version 1. Regenerating with unchanged inputs still bumps the version
unconditionally, even when the rendered content is identical.
*/
package configgen

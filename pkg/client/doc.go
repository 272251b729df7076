/*
Package client provides a Go client library for the registry HTTP API.

It wraps the REST surface under /api/v1/registry with a small,
idiomatic Go interface: one method per operation, bearer token auth,
and typed request/response structs instead of raw JSON.

# Usage

	c := client.New("http://localhost:8088", client.WithToken("writer-token"))

	team, err := c.CreateTeam(ctx, "Platform Team", "platform")
	if err != nil {
		log.Fatal(err)
	}

	svc, err := c.CreateService(ctx, team.ID, client.CreateServiceInput{
		Name: "orders-service",
		Slug: "orders-service",
		Type: types.ServiceTypeSpringBoot,
	})
	if err != nil {
		log.Fatal(err)
	}

	order, err := c.StartupOrder(ctx, team.ID)

# Error handling

Non-2xx responses are decoded from the API's {status, message} error
body and returned as *client.APIError, so callers can inspect the
original HTTP status without string-matching on Error().

# See Also

  - internal/httpapi for the server-side implementation
  - pkg/types for the entity types returned by this client
*/
package client

/*
Package health implements the registry's health aggregator:
out-of-band HTTP probes against a service's configured health-check URL,
with per-service caching on the Service record and team/solution roll-up.

# Probe shape

The probe is a reusable *http.Client with a fixed timeout, Check(ctx)
threading the context into http.NewRequestWithContext, classifying the
result into a three-way UP/DEGRADED/DOWN status:

	HTTP 200            → UP
	any other response  → DEGRADED ("HTTP <code>")
	request/connect err → DOWN

A service with no configured health-check URL is UNKNOWN and is never
probed or persisted.

# Roll-up

CheckTeam and CheckSolution fan probes out across one goroutine per
service, joined by a sync.WaitGroup, so one unreachable target cannot
block the rest of the batch; each probe is still cut off by the client's
timeout. The aggregate
status is DOWN if any member is DOWN, else DEGRADED if any member is
DEGRADED, else UP if any member is UP, else UNKNOWN.
*/
package health

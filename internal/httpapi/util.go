package httpapi

import (
	"github.com/codeops/registry/pkg/health"
	"github.com/codeops/registry/pkg/types"
)

func toInterfaceSlice(routes []*types.APIRoute) []interface{} {
	items := make([]interface{}, len(routes))
	for i, rt := range routes {
		items[i] = rt
	}
	return items
}

func healthResultsToInterfaces(results []*health.CheckResult) []interface{} {
	items := make([]interface{}, len(results))
	for i, res := range results {
		items[i] = res
	}
	return items
}

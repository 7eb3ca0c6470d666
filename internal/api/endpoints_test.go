package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointsAreUnique(t *testing.T) {
	names := map[string]bool{}
	routes := map[string]bool{}
	for _, ep := range Endpoints() {
		assert.False(t, names[ep.Name], "duplicate name %s", ep.Name)
		names[ep.Name] = true

		route := ep.Method + " " + ep.Path
		assert.False(t, routes[route], "duplicate route %s", route)
		routes[route] = true

		assert.True(t, strings.HasPrefix(ep.Path, "/"), ep.Path)
	}
}

func TestEndpointExpand(t *testing.T) {
	assert.Equal(t, "/products/abc/related", epRelated.expand("id", "abc"))
	assert.Equal(t, "/orders/track/MSN%2F1", epTrackOrder.expand("order_number", "MSN/1"))
	assert.Equal(t, "/products", epProducts.expand())
}

package resolver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muko/resolver"
)

func TestNew(t *testing.T) {
	assert.IsType(t, &resolver.System{}, resolver.New("", time.Second))
	assert.IsType(t, &resolver.Nameserver{}, resolver.New("192.0.2.53", time.Second))
}

func TestSystemLookupHostLocalhost(t *testing.T) {
	addrs, err := resolver.NewSystem(2*time.Second).LookupHost(context.Background(), "localhost")
	require.NoError(t, err)
	assert.NotEmpty(t, addrs)
}

// Package resolver provides the DNS lookups used to find production IPs.
package resolver

import (
	"context"
	"net"
	"time"

	"muko/core"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 5 * time.Second

// Compile-time check that System implements core.Lookuper.
var _ core.Lookuper = (*System)(nil)

// System resolves through the operating system's resolver, which also
// consults the hosts file.
type System struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewSystem creates a System resolver using net.DefaultResolver.
func NewSystem(timeout time.Duration) *System {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &System{resolver: net.DefaultResolver, timeout: timeout}
}

// LookupHost resolves a hostname to a list of IP addresses.
func (s *System) LookupHost(ctx context.Context, host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.resolver.LookupHost(ctx, host)
}

// New returns a Nameserver resolver when nameserver is set and the system
// resolver otherwise.
func New(nameserver string, timeout time.Duration) core.Lookuper {
	if nameserver == "" {
		return NewSystem(timeout)
	}
	return NewNameserver(nameserver, timeout)
}

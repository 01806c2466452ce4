package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"muko/core"
)

// Compile-time check that Nameserver implements core.Lookuper.
var _ core.Lookuper = (*Nameserver)(nil)

// Nameserver queries one DNS server directly for A and AAAA records. Unlike
// System it never sees the local hosts file, so a stale override cannot leak
// into the answer.
type Nameserver struct {
	addr    string
	timeout time.Duration
	client  *dns.Client
}

// NewNameserver creates a resolver for addr, given as host or host:port.
// Port 53 is assumed when none is given.
func NewNameserver(addr string, timeout time.Duration) *Nameserver {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "53")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Nameserver{
		addr:    addr,
		timeout: timeout,
		client:  &dns.Client{Net: "udp", Timeout: timeout},
	}
}

// Addr returns the host:port queried.
func (n *Nameserver) Addr() string {
	return n.addr
}

// LookupHost returns IPv4 addresses first, then IPv6 ones.
func (n *Nameserver) LookupHost(ctx context.Context, host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	var addrs []string
	var lastErr error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		got, err := n.query(ctx, host, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		addrs = append(addrs, got...)
	}

	if len(addrs) > 0 {
		return addrs, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, Server: n.addr, IsNotFound: true}
}

func (n *Nameserver) query(ctx context.Context, host string, qtype uint16) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)

	r, _, err := n.client.ExchangeContext(ctx, m, n.addr)
	if err != nil {
		return nil, fmt.Errorf("query %s for %s: %w", n.addr, host, err)
	}
	if r.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: n.timeout}
		if r, _, err = tcp.ExchangeContext(ctx, m, n.addr); err != nil {
			return nil, fmt.Errorf("query %s over tcp for %s: %w", n.addr, host, err)
		}
	}

	switch r.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, &net.DNSError{Err: "no such host", Name: host, Server: n.addr, IsNotFound: true}
	default:
		return nil, &net.DNSError{Err: dns.RcodeToString[r.Rcode], Name: host, Server: n.addr}
	}

	var addrs []string
	for _, rr := range r.Answer {
		switch v := rr.(type) {
		case *dns.A:
			addrs = append(addrs, v.A.String())
		case *dns.AAAA:
			addrs = append(addrs, v.AAAA.String())
		}
	}
	return addrs, nil
}

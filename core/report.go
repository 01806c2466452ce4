package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"muko/data"
)

// Lookuper abstracts forward DNS lookups for testability.
type Lookuper interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// RetryPolicy bounds production IP resolution for one entry.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy makes three attempts 100ms apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: 100 * time.Millisecond}

// errOverride means DNS still answered with the DEV override address.
var errOverride = errors.New("resolved to override address")

// Reporter builds the managed-entry report and fills in production IPs.
type Reporter struct {
	lookuper Lookuper
	policy   RetryPolicy
	log      *zap.Logger
}

// NewReporter creates a Reporter. A nil log discards output.
func NewReporter(l Lookuper, policy RetryPolicy, log *zap.Logger) *Reporter {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{lookuper: l, policy: policy, log: log.Named("report")}
}

// Collect returns the managed entries of lines in file order.
func Collect(lines []string) []data.ManagedEntry {
	var entries []data.ManagedEntry
	for _, line := range lines {
		if e, ok := Decode(line); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Report collects the managed entries of lines and resolves the production IP
// of each inactive one, strictly in file order. Resolution failures only
// leave ProdIP empty; the returned error is non-nil only when ctx ends.
func (r *Reporter) Report(ctx context.Context, lines []string) ([]data.ManagedEntry, error) {
	for i, line := range lines {
		if strings.Contains(line, Tag) {
			if _, ok := Decode(line); !ok {
				r.log.Debug("skipping malformed managed line", zap.Int("line", i+1), zap.String("text", line))
			}
		}
	}

	entries := Collect(lines)
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		entries[i] = r.Resolve(ctx, entries[i])
	}
	return entries, nil
}

// Resolve fills in the production IP of an inactive entry. An answer that
// differs from the override IP is taken at once; an answer equal to it is kept
// only if no later attempt does better. Active entries are returned untouched
// without any lookup.
func (r *Reporter) Resolve(ctx context.Context, entry data.ManagedEntry) data.ManagedEntry {
	if entry.Active {
		return entry
	}

	var provisional string
	attempt := 0
	prodIP, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		addr, err := r.lookupFirst(ctx, entry.Domain)
		if err != nil {
			r.log.Debug("lookup failed",
				zap.String("domain", entry.Domain), zap.Int("attempt", attempt), zap.Error(err))
			return "", err
		}
		if addr == entry.IP {
			r.log.Debug("lookup returned override address",
				zap.String("domain", entry.Domain), zap.Int("attempt", attempt), zap.String("addr", addr))
			provisional = addr
			return "", errOverride
		}
		return addr, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(r.policy.Delay)),
		backoff.WithMaxTries(uint(r.policy.Attempts)),
	)
	if err != nil {
		if provisional == "" {
			r.log.Debug("production IP unavailable", zap.String("domain", entry.Domain), zap.Error(err))
		}
		entry.ProdIP = provisional
		return entry
	}

	entry.ProdIP = prodIP
	return entry
}

func (r *Reporter) lookupFirst(ctx context.Context, host string) (string, error) {
	addrs, err := r.lookuper.LookupHost(ctx, host)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnresolvable, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("%w: %s has no addresses", ErrUnresolvable, host)
	}
	return addrs[0], nil
}

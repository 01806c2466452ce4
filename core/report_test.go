package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"muko/core"
	"muko/data"
)

// answer is one scripted LookupHost result.
type answer struct {
	addrs []string
	err   error
}

// scriptedLookuper replays answers per host, repeating the last one.
type scriptedLookuper struct {
	answers map[string][]answer
	calls   map[string]int
}

func newScriptedLookuper() *scriptedLookuper {
	return &scriptedLookuper{
		answers: make(map[string][]answer),
		calls:   make(map[string]int),
	}
}

func (l *scriptedLookuper) LookupHost(_ context.Context, host string) ([]string, error) {
	n := l.calls[host]
	l.calls[host]++

	script, ok := l.answers[host]
	if !ok || len(script) == 0 {
		return nil, errors.New("no such host: " + host)
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	return script[n].addrs, script[n].err
}

var fastRetry = core.RetryPolicy{Attempts: 3, Delay: time.Millisecond}

func TestResolve(t *testing.T) {
	errTemporary := errors.New("temporary failure in name resolution")

	cases := []struct {
		name      string
		script    []answer
		wantProd  string
		wantCalls int
	}{
		{
			name:      "different address accepted on first attempt",
			script:    []answer{{addrs: []string{"93.184.216.34", "93.184.216.35"}}},
			wantProd:  "93.184.216.34",
			wantCalls: 1,
		},
		{
			name: "override twice then real address",
			script: []answer{
				{addrs: []string{"127.0.0.1"}},
				{addrs: []string{"127.0.0.1"}},
				{addrs: []string{"203.0.113.10"}},
			},
			wantProd:  "203.0.113.10",
			wantCalls: 3,
		},
		{
			name:      "override on every attempt is kept as provisional",
			script:    []answer{{addrs: []string{"127.0.0.1"}}},
			wantProd:  "127.0.0.1",
			wantCalls: 3,
		},
		{
			name: "failure then real address",
			script: []answer{
				{err: errTemporary},
				{addrs: []string{"198.51.100.1"}},
			},
			wantProd:  "198.51.100.1",
			wantCalls: 2,
		},
		{
			name: "provisional survives a later failure",
			script: []answer{
				{addrs: []string{"127.0.0.1"}},
				{err: errTemporary},
			},
			wantProd:  "127.0.0.1",
			wantCalls: 3,
		},
		{
			name:      "empty answer counts as a failure",
			script:    []answer{{addrs: []string{}}},
			wantProd:  "",
			wantCalls: 3,
		},
		{
			name:      "all attempts fail",
			script:    []answer{{err: errTemporary}},
			wantProd:  "",
			wantCalls: 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newScriptedLookuper()
			l.answers["foo.test"] = tc.script
			r := core.NewReporter(l, fastRetry, zaptest.NewLogger(t))

			entry := data.ManagedEntry{IP: "127.0.0.1", Domain: "foo.test", Alias: "foo"}
			got := r.Resolve(context.Background(), entry)

			assert.Equal(t, tc.wantProd, got.ProdIP)
			assert.Equal(t, tc.wantCalls, l.calls["foo.test"])
			assert.Equal(t, entry.IP, got.IP)
			assert.False(t, got.Active)
		})
	}
}

func TestResolveSkipsActiveEntries(t *testing.T) {
	l := newScriptedLookuper()
	l.answers["foo.test"] = []answer{{addrs: []string{"203.0.113.10"}}}
	r := core.NewReporter(l, fastRetry, nil)

	entry := data.ManagedEntry{IP: "127.0.0.1", Domain: "foo.test", Active: true}
	got := r.Resolve(context.Background(), entry)

	assert.Equal(t, entry, got)
	assert.Empty(t, got.ProdIP)
	assert.Zero(t, l.calls["foo.test"])
}

func TestResolveWaitsBetweenAttempts(t *testing.T) {
	l := newScriptedLookuper()
	r := core.NewReporter(l, core.RetryPolicy{Attempts: 3, Delay: 20 * time.Millisecond}, nil)

	start := time.Now()
	got := r.Resolve(context.Background(), data.ManagedEntry{IP: "127.0.0.1", Domain: "gone.test"})

	assert.Empty(t, got.ProdIP)
	assert.Equal(t, 3, l.calls["gone.test"])
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestReport(t *testing.T) {
	lines := []string{
		"127.0.0.1 localhost",
		"#127.0.0.1 prod.test #muko: prod",
		"127.0.0.1 dev.test #muko: dev",
		"127.0.0.1 #muko: malformed",
		"#10.0.0.1 gone.test #muko: gone",
	}

	l := newScriptedLookuper()
	l.answers["prod.test"] = []answer{{addrs: []string{"203.0.113.5"}}}
	l.answers["dev.test"] = []answer{{addrs: []string{"203.0.113.6"}}}

	obsCore, logs := observer.New(zapcore.DebugLevel)
	r := newReporter(l, zap.New(obsCore))

	got, err := r.Report(context.Background(), lines)
	require.NoError(t, err)

	assert.Equal(t, []data.ManagedEntry{
		{IP: "127.0.0.1", Domain: "prod.test", Alias: "prod", ProdIP: "203.0.113.5"},
		{IP: "127.0.0.1", Domain: "dev.test", Alias: "dev", Active: true},
		{IP: "10.0.0.1", Domain: "gone.test", Alias: "gone"},
	}, got)
	assert.Zero(t, l.calls["dev.test"])
	assert.Equal(t, 3, l.calls["gone.test"])

	// The malformed tagged line is skipped silently but is visible at debug level.
	assert.Equal(t, 1, logs.FilterMessage("skipping malformed managed line").Len())
}

func TestReportStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newScriptedLookuper()
	r := newReporter(l, nil)

	got, err := r.Report(ctx, []string{"#127.0.0.1 a.test #muko: a", "#127.0.0.1 b.test #muko: b"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, got, 2)
	assert.Zero(t, l.calls["a.test"])
}

func TestCollect(t *testing.T) {
	got := core.Collect(sampleHosts)

	require.Len(t, got, 3)
	assert.Equal(t, "foo.test", got[0].Domain)
	assert.Equal(t, "bar.test", got[1].Domain)
	assert.Equal(t, "baz.test", got[2].Domain)
	assert.Empty(t, core.Collect([]string{"127.0.0.1 localhost"}))
}

func newReporter(l core.Lookuper, log *zap.Logger) *core.Reporter {
	return core.NewReporter(l, fastRetry, log)
}

// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/wirefish/internal/monitor"
	"github.com/telekom/wirefish/internal/netutil"
	"github.com/telekom/wirefish/internal/scanner"
	"github.com/telekom/wirefish/internal/traceroute"
	"github.com/telekom/wirefish/pkg/api"
	"github.com/telekom/wirefish/pkg/config"
	"github.com/telekom/wirefish/pkg/report"
	"golang.org/x/net/ipv4"
)

type monitorFunc func(ctx context.Context, opts *monitor.Options) (*monitor.Series, error)

func (f monitorFunc) Run(ctx context.Context, opts *monitor.Options) (*monitor.Series, error) {
	return f(ctx, opts)
}

type fakeAPI struct {
	run func(ctx context.Context) error
}

func (f *fakeAPI) Run(ctx context.Context) error                { return f.run(ctx) }
func (f *fakeAPI) RegisterRoutes(context.Context, ...api.Route) {}
func (f *fakeAPI) Shutdown(context.Context) error               { return nil }

func scanTable() *scanner.Table {
	return scanner.NewTable("example.com", "192.0.2.1",
		scanner.Result{Port: 22, State: scanner.StateOpen, LatencyMs: 2},
		scanner.Result{Port: 23, State: scanner.StateClosed, LatencyMs: 1},
	)
}

// run executes the command tree with args and returns stdout
func run(t *testing.T, e engines, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_LEVEL", "ERROR")

	var out, errOut bytes.Buffer
	c := buildCmd("v0.0.1", e)
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetArgs(args)
	err := c.ExecuteContext(t.Context())
	return out.String(), err
}

func scanEngines(m *scanner.ClientMock) engines {
	e := defaultEngines()
	e.scanner = func() scanner.Client { return m }
	return e
}

func TestScan_Options(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		file string
		want *scanner.Options
	}{
		{
			name: "defaults",
			args: []string{"scan", "example.com"},
			want: &scanner.Options{PortFrom: 1, PortTo: 1024, Timeout: 100 * time.Millisecond},
		},
		{
			name: "flags",
			args: []string{"scan", "example.com", "--ports", "20-25", "--timeout", "50ms"},
			want: &scanner.Options{PortFrom: 20, PortTo: 25, Timeout: 50 * time.Millisecond},
		},
		{
			name: "single port",
			args: []string{"scan", "example.com", "--ports", "443"},
			want: &scanner.Options{PortFrom: 443, PortTo: 443, Timeout: 100 * time.Millisecond},
		},
		{
			name: "environment",
			args: []string{"scan", "example.com"},
			env:  map[string]string{"WIREFISH_TIMEOUT": "250ms", "WIREFISH_PORTS_TO": "80"},
			want: &scanner.Options{PortFrom: 1, PortTo: 80, Timeout: 250 * time.Millisecond},
		},
		{
			name: "config file",
			args: []string{"scan", "example.com"},
			file: "ports:\n  from: 8000\n  to: 8080\ntimeout: 1s\n",
			want: &scanner.Options{PortFrom: 8000, PortTo: 8080, Timeout: time.Second},
		},
		{
			name: "flags win over config file",
			args: []string{"scan", "example.com", "--ports", "1-2"},
			file: "ports:\n  from: 8000\n  to: 8080\n",
			want: &scanner.Options{PortFrom: 1, PortTo: 2, Timeout: 100 * time.Millisecond},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := tt.args
			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "wirefish.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
				args = append(args, "--config", path)
			}

			m := &scanner.ClientMock{
				ScanFunc: func(_ context.Context, target string, _ *scanner.Options) (*scanner.Table, error) {
					assert.Equal(t, "example.com", target)
					return scanTable(), nil
				},
			}
			_, err := run(t, scanEngines(m), args...)
			require.NoError(t, err)
			require.Len(t, m.ScanCalls(), 1)
			if diff := cmp.Diff(tt.want, m.ScanCalls()[0].Opts); diff != "" {
				t.Errorf("Scan() options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScan_Formats(t *testing.T) {
	m := &scanner.ClientMock{
		ScanFunc: func(context.Context, string, *scanner.Options) (*scanner.Table, error) {
			return scanTable(), nil
		},
	}

	t.Run("table by default", func(t *testing.T) {
		out, err := run(t, scanEngines(m), "scan", "example.com")
		require.NoError(t, err)
		assert.Equal(t, "PORT  STATE   LATENCY_MS\n22    open    2\n23    closed  1\n", out)
	})

	t.Run("csv shorthand", func(t *testing.T) {
		out, err := run(t, scanEngines(m), "scan", "example.com", "--csv")
		require.NoError(t, err)
		assert.Equal(t, "PORT,STATE,LATENCY_MS\n22,open,2\n23,closed,1\n", out)
	})

	t.Run("json shorthand", func(t *testing.T) {
		out, err := run(t, scanEngines(m), "scan", "example.com", "--json")
		require.NoError(t, err)
		var got report.ScanReport
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 1, got.Open)
		assert.Equal(t, 1, got.Closed)
	})

	t.Run("json and csv exclude each other", func(t *testing.T) {
		_, err := run(t, scanEngines(m), "scan", "example.com", "--json", "--csv")
		assert.Error(t, err)
	})

	t.Run("report file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scan.yaml")
		out, err := run(t, scanEngines(m), "scan", "example.com", "-f", "yaml", "-o", path)
		require.NoError(t, err)
		assert.Empty(t, out)
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(b), "target: example.com")
	})

	t.Run("metrics file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wirefish.prom")
		_, err := run(t, scanEngines(m), "scan", "example.com", "--metrics-file", path)
		require.NoError(t, err)
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(b), `wirefish_build_info{mode="scan",version="v0.0.1"} 1`)
	})
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "missing target",
			args:    []string{"scan"},
			wantErr: config.ErrInvalidTarget,
		},
		{
			name:    "inverted range",
			args:    []string{"scan", "example.com", "--ports", "100-10"},
			wantErr: scanner.ErrInvalidRange,
		},
		{
			name:    "port out of bounds",
			args:    []string{"scan", "example.com", "--ports", "0-10"},
			wantErr: scanner.ErrInvalidRange,
		},
		{
			name:    "malformed range",
			args:    []string{"scan", "example.com", "--ports", "http"},
			wantErr: config.ErrInvalidRangeSyntax,
		},
		{
			name:    "unknown format",
			args:    []string{"scan", "example.com", "--format", "xml"},
			wantErr: report.ErrInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &scanner.ClientMock{}
			_, err := run(t, scanEngines(m), tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, m.ScanCalls(), "nothing is probed for an invalid configuration")
		})
	}
}

func TestScan_PartialResults(t *testing.T) {
	m := &scanner.ClientMock{
		ScanFunc: func(context.Context, string, *scanner.Options) (*scanner.Table, error) {
			return scanTable(), context.Canceled
		},
	}
	out, err := run(t, scanEngines(m), "scan", "example.com", "--csv")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out, "23,closed,1", "the ports scanned before the interrupt are reported")
}

func TestScan_FatalError(t *testing.T) {
	dnsErr := &netutil.DNSError{Host: "nope.invalid", Reason: "no such host"}
	m := &scanner.ClientMock{
		ScanFunc: func(context.Context, string, *scanner.Options) (*scanner.Table, error) {
			return nil, dnsErr
		},
	}
	out, err := run(t, scanEngines(m), "scan", "nope.invalid")
	var target *netutil.DNSError
	assert.ErrorAs(t, err, &target)
	assert.Empty(t, out)
}

func TestTrace(t *testing.T) {
	route := func() *traceroute.Route {
		return traceroute.NewRoute("example.com", "192.0.2.1",
			traceroute.Hop{Number: 3, Address: "10.0.0.1", Host: "10.0.0.1", RTTMs: 4, ICMPType: ipv4.ICMPTypeTimeExceeded},
			traceroute.Hop{Number: 4, Address: "192.0.2.1", Host: "example.com", RTTMs: 7, ICMPType: ipv4.ICMPTypeEchoReply},
		)
	}

	t.Run("options and report", func(t *testing.T) {
		m := &traceroute.ClientMock{
			RunFunc: func(context.Context, string, *traceroute.Options) (*traceroute.Route, error) {
				return route(), nil
			},
		}
		e := defaultEngines()
		e.tracer = func() traceroute.Client { return m }

		out, err := run(t, e, "trace", "example.com", "--ttl", "3-12", "--hop-timeout", "500ms", "--csv")
		require.NoError(t, err)
		require.Len(t, m.RunCalls(), 1)
		want := &traceroute.Options{TTLStart: 3, TTLMax: 12, HopTimeout: 500 * time.Millisecond}
		if diff := cmp.Diff(want, m.RunCalls()[0].Opts); diff != "" {
			t.Errorf("Run() options mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "HOP,ADDRESS,HOST,RTT_MS,TYPE,TIMEOUT\n3,10.0.0.1,10.0.0.1,4,time exceeded,false\n4,192.0.2.1,example.com,7,echo reply,false\n", out)
	})

	t.Run("defaults", func(t *testing.T) {
		m := &traceroute.ClientMock{
			RunFunc: func(context.Context, string, *traceroute.Options) (*traceroute.Route, error) {
				return route(), nil
			},
		}
		e := defaultEngines()
		e.tracer = func() traceroute.Client { return m }

		_, err := run(t, e, "trace", "example.com")
		require.NoError(t, err)
		want := &traceroute.Options{TTLStart: 1, TTLMax: 30, HopTimeout: time.Second}
		if diff := cmp.Diff(want, m.RunCalls()[0].Opts); diff != "" {
			t.Errorf("Run() options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ttl above 255", func(t *testing.T) {
		m := &traceroute.ClientMock{}
		e := defaultEngines()
		e.tracer = func() traceroute.Client { return m }

		_, err := run(t, e, "trace", "example.com", "--ttl", "1-256")
		assert.ErrorIs(t, err, traceroute.ErrInvalidRange)
		assert.Empty(t, m.RunCalls())
	})

	t.Run("permission denied", func(t *testing.T) {
		m := &traceroute.ClientMock{
			RunFunc: func(context.Context, string, *traceroute.Options) (*traceroute.Route, error) {
				return nil, netutil.ErrPermissionDenied
			},
		}
		e := defaultEngines()
		e.tracer = func() traceroute.Client { return m }

		_, err := run(t, e, "trace", "example.com")
		require.ErrorIs(t, err, netutil.ErrPermissionDenied)

		var buf bytes.Buffer
		printError(&buf, err)
		assert.Contains(t, buf.String(), "Error: ")
		assert.Contains(t, buf.String(), "run with sudo or grant CAP_NET_RAW")
	})
}

func TestPrintError_NoHint(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestMonitor(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := func() *monitor.Series {
		return monitor.NewSeries("eth0",
			monitor.Sample{Time: ts, Iface: "eth0"},
			monitor.Sample{Time: ts.Add(time.Second), Iface: "eth0", RxRateBps: 800, TxRateBps: 400, RxAvgBps: 800, TxAvgBps: 400},
		)
	}

	t.Run("options and report", func(t *testing.T) {
		var got *monitor.Options
		e := defaultEngines()
		e.monitor = func() (monitorRunner, error) {
			return monitorFunc(func(_ context.Context, opts *monitor.Options) (*monitor.Series, error) {
				got = opts
				return series(), nil
			}), nil
		}

		out, err := run(t, e, "monitor", "--iface", "eth0", "--interval", "1s", "--duration", "2s", "--csv")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "eth0", got.Iface)
		assert.Equal(t, time.Second, got.Interval)
		assert.Equal(t, 2*time.Second, got.Duration)
		assert.Nil(t, got.OnSample, "samples are only streamed when serving the api")
		assert.Contains(t, out, "2025-01-01T00:00:01Z,eth0,800.00,400.00,800.00,400.00")
	})

	t.Run("serves the api while running", func(t *testing.T) {
		e := defaultEngines()
		e.monitor = func() (monitorRunner, error) {
			return monitorFunc(func(_ context.Context, opts *monitor.Options) (*monitor.Series, error) {
				require.NotNil(t, opts.OnSample)
				s := series()
				for _, smp := range s.Samples() {
					opts.OnSample(smp)
				}
				return s, nil
			}), nil
		}

		out, err := run(t, e, "monitor", "--listen", "127.0.0.1:0", "--json")
		require.NoError(t, err)
		var rep report.MonitorReport
		require.NoError(t, json.Unmarshal([]byte(out), &rep))
		assert.Len(t, rep.Samples, 2)
	})

	t.Run("invalid listen address", func(t *testing.T) {
		_, err := run(t, defaultEngines(), "monitor", "--listen", "9100")
		assert.ErrorIs(t, err, config.ErrInvalidListenAddress)
	})

	t.Run("monitor unavailable", func(t *testing.T) {
		e := defaultEngines()
		e.monitor = func() (monitorRunner, error) { return nil, monitor.ErrNoInterface }
		_, err := run(t, e, "monitor")
		assert.ErrorIs(t, err, monitor.ErrNoInterface)
	})

	t.Run("rejects arguments", func(t *testing.T) {
		_, err := run(t, defaultEngines(), "monitor", "eth0")
		assert.Error(t, err)
	})
}

func TestWatch(t *testing.T) {
	blocking := monitorFunc(func(ctx context.Context, _ *monitor.Options) (*monitor.Series, error) {
		<-ctx.Done()
		return monitor.NewSeries("eth0"), nil
	})

	t.Run("without server", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		s, err := watch(ctx, blocking, &monitor.Options{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "eth0", s.Iface)
	})

	t.Run("failing server stops the monitor", func(t *testing.T) {
		boom := errors.New("address in use")
		server := &fakeAPI{run: func(context.Context) error { return boom }}
		s, err := watch(t.Context(), blocking, &monitor.Options{}, server)
		assert.ErrorIs(t, err, boom)
		assert.NotNil(t, s)
	})

	t.Run("server stops with the monitor", func(t *testing.T) {
		stopped := make(chan struct{})
		server := &fakeAPI{run: func(ctx context.Context) error {
			<-ctx.Done()
			close(stopped)
			return ctx.Err()
		}}
		done := monitorFunc(func(context.Context, *monitor.Options) (*monitor.Series, error) {
			return monitor.NewSeries("eth0"), nil
		})
		_, err := watch(t.Context(), done, &monitor.Options{}, server)
		require.NoError(t, err)
		select {
		case <-stopped:
		default:
			t.Fatal("the server must be stopped once the monitor returns")
		}
	})

	t.Run("failed shutdown is reported", func(t *testing.T) {
		shutdownErr := fmt.Errorf("failed shutting down api server: %w", context.DeadlineExceeded)
		server := &fakeAPI{run: func(ctx context.Context) error {
			<-ctx.Done()
			return shutdownErr
		}}
		done := monitorFunc(func(context.Context, *monitor.Options) (*monitor.Series, error) {
			return monitor.NewSeries("eth0"), nil
		})
		s, err := watch(t.Context(), done, &monitor.Options{}, server)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotNil(t, s, "the samples are kept")
	})
}

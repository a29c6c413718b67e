package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func listen(t *testing.T) (net.Listener, string) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l, strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func TestRunHelp(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"-h"},
		{"--help"},
		{"127.0.0.1", "--help"},
	} {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), args, &stdout, &stderr)
		if code != exitOK {
			t.Fatalf("%v: expected exit 0, got %d", args, code)
		}
		if !strings.Contains(stdout.String(), "Usage:") {
			t.Fatalf("%v: expected usage on stdout, got %q", args, stdout.String())
		}
		if strings.Contains(stdout.String(), "Scanning") {
			t.Fatalf("%v: help must not scan", args)
		}
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		args []string
		msg  string
	}{
		{"reversed range", []string{"127.0.0.1", "100", "50"}, "invalid port range"},
		{"end above max", []string{"127.0.0.1", "1", "65536"}, "invalid port range"},
		{"bad address", []string{"not-an-ip"}, "invalid target address"},
		{"zero concurrency", []string{"127.0.0.1", "1", "10", "0"}, "invalid concurrency limit"},
		{"text concurrency", []string{"127.0.0.1", "1", "10", "many"}, "invalid concurrency limit"},
		{"negative timeout", []string{"-timeout", "-1s", "127.0.0.1"}, "invalid timeout"},
		{"too many args", []string{"127.0.0.1", "1", "2", "3", "4"}, "too many arguments"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tc.args, &stdout, &stderr)
			if code != exitUsage {
				t.Fatalf("expected exit %d, got %d", exitUsage, code)
			}
			if stdout.Len() != 0 {
				t.Fatalf("expected no stdout output, got %q", stdout.String())
			}
			if !strings.Contains(stderr.String(), tc.msg) {
				t.Fatalf("expected %q in stderr, got %q", tc.msg, stderr.String())
			}
		})
	}
}

func TestRunLoopbackText(t *testing.T) {
	_, port := listen(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-no-progress", "-timeout", "1s", "127.0.0.1", port, port, "4"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr=%q)", code, stderr.String())
	}

	p, _ := strconv.Atoi(port)
	out := stdout.String()
	if !strings.Contains(out, fmt.Sprintf("Port %5d OPEN", p)) {
		t.Fatalf("expected open line for %s, got %q", port, out)
	}
	if !strings.Contains(out, "Scanning 1 ports") {
		t.Fatalf("expected header, got %q", out)
	}
	if !strings.Contains(out, "Scan finished: 1 open, 0 closed/filtered") {
		t.Fatalf("expected summary, got %q", out)
	}
}

func TestRunJSONWithConfig(t *testing.T) {
	_, port := listen(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := fmt.Sprintf("timeout_ms: 1000\noutput: json\nno_progress: true\nservices:\n  %s: HTTP\n", port)
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", path, "127.0.0.1", port, port}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr=%q)", code, stderr.String())
	}

	var rep struct {
		Target      string `json:"target"`
		Concurrency int    `json:"concurrency"`
		Results     []struct {
			Port    int    `json:"port"`
			State   string `json:"state"`
			Service string `json:"service"`
		} `json:"results"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, stdout.String())
	}
	if rep.Concurrency != 500 || len(rep.Results) != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if r := rep.Results[0]; strconv.Itoa(r.Port) != port || r.State != "open" || r.Service != "HTTP" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestRunMissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "nope.yaml"), "127.0.0.1"}, &stdout, &stderr)
	if code != exitUsage || stdout.Len() != 0 {
		t.Fatalf("expected usage error without output, got %d / %q", code, stdout.String())
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-no-progress", "127.0.0.1", "1", "10"}, &stdout, &stderr)
	if code != exitCancelled {
		t.Fatalf("expected exit %d, got %d", exitCancelled, code)
	}
	if !strings.Contains(stdout.String(), "Scan cancelled: 0 open, 0 closed/filtered (0/10 ports)") {
		t.Fatalf("expected cancelled summary, got %q", stdout.String())
	}
}

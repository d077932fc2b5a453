package terminal

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/foundation-report/pkg/runtime/process"
)

// fakeRunner answers om and curl invocations from canned payloads
type fakeRunner struct {
	products map[string]string // target -> deployed products JSON
	releases map[string]string // slug -> release JSON; missing slugs fail like curl -f
	failOm   bool
	calls    [][]string
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (process.Result, error) {
	f.calls = append(f.calls, args)
	switch args[0] {
	case "om":
		if f.failOm {
			return process.Result{ExitCode: 1, Stderr: []byte("invalid credentials\n")}, nil
		}
		if strings.Contains(strings.Join(args, " "), "GET -p /api/v0/deployed/products") {
			return process.Result{Stdout: []byte(f.products[args[2]])}, nil
		}
		return process.Result{}, nil
	case "curl":
		url := args[len(args)-1]
		slug := strings.TrimSuffix(strings.TrimPrefix(url, "https://network.pivotal.io/api/v2/products/"), "/releases/latest")
		if body, ok := f.releases[slug]; ok {
			return process.Result{Stdout: []byte(body)}, nil
		}
		return process.Result{ExitCode: 22}, nil
	}
	return process.Result{}, fmt.Errorf("unexpected command %s", args[0])
}

func (f *fakeRunner) count(binary string) int {
	n := 0
	for _, c := range f.calls {
		if c[0] == binary {
			n++
		}
	}
	return n
}

type run struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, runner process.Runner, args ...string) run {
	t.Helper()
	for _, env := range []string{"PIVNET_TOKEN", "FOUNDATIONS", "LOG_LEVEL", "OM_BINARY", "CURL_BINARY", "PIVNET_URL"} {
		t.Setenv(env, "")
	}

	var stdout, stderr bytes.Buffer
	cli, err := NewCLI(Options{Runner: runner, Output: &stdout, ErrOutput: &stderr})
	require.NoError(t, err)
	cli.SetArgs(args)

	code := cli.Fail(cli.Execute())
	return run{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func tableLines(out string) []string {
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

func TestCLI_SingleFoundationReport(t *testing.T) {
	// Given
	runner := &fakeRunner{
		products: map[string]string{"demo.example.org": `[{"type":"cf","product_version":"2.4.1"}]`},
		releases: map[string]string{"elastic-runtime": `{"version":"2.9.0"}`},
	}

	// When
	res := execute(t, runner, "-f", "DEMO,demo.example.org,admin,admin")

	// Then
	require.Equal(t, ExitOK, res.code, res.stderr)
	sep := strings.Repeat("-", 58)
	assert.Equal(t, []string{
		sep,
		fmt.Sprintf("%-42s%-16s", "Product (latest version)", "DEMO"),
		sep,
		fmt.Sprintf("%-42s%-16s", "cf (2.9.0)", "2.4.1"),
		sep,
	}, tableLines(res.stdout))
	assert.Equal(t, 3, runner.count("om"))
	assert.Equal(t, 1, runner.count("curl"))
}

func TestCLI_CatalogFailureShowsPlaceholder(t *testing.T) {
	runner := &fakeRunner{
		products: map[string]string{"demo.example.org": `[{"type":"p-redis","product_version":"1.14.1"}]`},
	}

	res := execute(t, runner, "-f", "DEMO,demo.example.org,admin,admin")

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, fmt.Sprintf("%-42s%-16s", "p-redis (-)", "1.14.1"), tableLines(res.stdout)[3])
}

func TestCLI_FileVersions(t *testing.T) {
	runner := &fakeRunner{
		products: map[string]string{"demo.example.org": `[{"type":"cf","product_version":"2.4.1"}]`},
		releases: map[string]string{"elastic-runtime": `{
			"version": "2.9.0",
			"product_files": [
				{"aws_object_key": "elastic-runtime/srt-2.9.0-build.2.pivotal", "file_version": "2.9.0-srt"},
				{"aws_object_key": "elastic-runtime/cf-2.9.0-build.2.pivotal", "file_version": "2.9.0-build.2"}
			]
		}`},
	}

	res := execute(t, runner, "-v", "-f", "DEMO,demo.example.org,admin,admin")

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, fmt.Sprintf("%-42s%-16s", "cf (2.9.0-build.2)", "2.4.1"), tableLines(res.stdout)[3])
}

func TestCLI_ProductSlugs(t *testing.T) {
	runner := &fakeRunner{
		products: map[string]string{"demo.example.org": `[{"type":"p-bosh","product_version":"2.4-build.152"}]`},
		releases: map[string]string{"ops-manager": `{"version":"2.10.1"}`},
	}

	res := execute(t, runner, "-s", "-f", "DEMO,demo.example.org,admin,admin")

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, fmt.Sprintf("%-42s%-16s", "ops-manager (2.10.1)", "2.4-build.152"), tableLines(res.stdout)[3])
}

func TestCLI_TokenFlagPassedToCatalog(t *testing.T) {
	runner := &fakeRunner{
		products: map[string]string{"demo.example.org": `[{"type":"cf","product_version":"2.4.1"}]`},
	}

	res := execute(t, runner, "-p", "tok-123", "-f", "DEMO,demo.example.org,admin,admin")

	require.Equal(t, ExitOK, res.code, res.stderr)
	var curl []string
	for _, c := range runner.calls {
		if c[0] == "curl" {
			curl = c
		}
	}
	assert.Contains(t, curl, "Authorization: Token tok-123")
}

func TestCLI_FoundationsFromEnvironment(t *testing.T) {
	runner := &fakeRunner{releases: map[string]string{}}
	var stdout, stderr bytes.Buffer
	t.Setenv("FOUNDATIONS", "DEV,dev.example.org,admin,admin\nPROD,prod.example.org,admin,admin")
	for _, env := range []string{"PIVNET_TOKEN", "LOG_LEVEL", "OM_BINARY", "CURL_BINARY", "PIVNET_URL"} {
		t.Setenv(env, "")
	}
	cli, err := NewCLI(Options{Runner: runner, Output: &stdout, ErrOutput: &stderr})
	require.NoError(t, err)
	cli.SetArgs([]string{"--sample", "--sample-seed", "9"})

	code := cli.Fail(cli.Execute())

	require.Equal(t, ExitOK, code, stderr.String())
	lines := tableLines(stdout.String())
	assert.Equal(t, fmt.Sprintf("%-42s%-16s%-16s", "Product (latest version)", "DEV", "PROD"), lines[1])
	assert.Len(t, lines[0], 42+2*16)
	assert.Equal(t, 0, runner.count("om"))
}

func TestCLI_FlagsWinOverEnvironmentFoundations(t *testing.T) {
	runner := &fakeRunner{}
	var stdout, stderr bytes.Buffer
	t.Setenv("FOUNDATIONS", "broken")
	cli, err := NewCLI(Options{Runner: runner, Output: &stdout, ErrOutput: &stderr})
	require.NoError(t, err)
	cli.SetArgs([]string{"--sample", "-f", "DEMO,demo.example.org,admin,admin"})

	code := cli.Fail(cli.Execute())

	assert.Equal(t, ExitOK, code, stderr.String())
}

func TestCLI_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foundations.ini")
	require.NoError(t, os.WriteFile(path, []byte("[LAB]\ntarget = lab.example.org\nusername = admin\npassword = admin\n"), 0o600))

	res := execute(t, &fakeRunner{}, "--sample", "-c", path)

	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, tableLines(res.stdout)[1], "LAB")
}

func TestCLI_SampleReportIsSorted(t *testing.T) {
	res := execute(t, &fakeRunner{}, "--sample", "--sample-seed", "3", "-f", "DEMO,demo.example.org,admin,admin")

	require.Equal(t, ExitOK, res.code, res.stderr)
	lines := tableLines(res.stdout)
	require.Len(t, lines, 4+5)
	rows := lines[3 : len(lines)-1]
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1], rows[i])
	}
}

func TestCLI_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		runner *fakeRunner
		code   int
		stderr string
		usage  bool
	}{
		{
			name:   "no foundations",
			args:   []string{},
			code:   ExitUsage,
			stderr: "ERROR: no foundations to process",
			usage:  true,
		},
		{
			name:   "unknown flag",
			args:   []string{"--bogus"},
			code:   ExitUsage,
			stderr: "unknown flag: --bogus",
			usage:  true,
		},
		{
			name:   "malformed definition",
			args:   []string{"-f", "DEMO|demo|admin|admin"},
			code:   ExitFailure,
			stderr: `ERROR: invalid foundation format: "DEMO|demo|admin|admin"`,
			usage:  true,
		},
		{
			name:   "duplicate foundation",
			args:   []string{"-f", "A,a,u,p", "-f", "A,b,u,p"},
			code:   ExitFailure,
			stderr: "ERROR: duplicate foundation name: A",
		},
		{
			name:   "management failure",
			args:   []string{"-f", "A,a.example.org,u,p", "-f", "B,b.example.org,u,p"},
			runner: &fakeRunner{failOm: true},
			code:   ExitFailure,
			stderr: "ERROR encountered when running command: om --target a.example.org --skip-ssl-validation " +
				"--username u --password p curl -s -x DELETE -p /api/v0/sessions\ninvalid credentials\n",
		},
		{
			name:   "bad log level",
			args:   []string{"--log-level", "loud", "-f", "A,a,u,p"},
			code:   ExitUsage,
			stderr: `invalid log level "loud"`,
			usage:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := tt.runner
			if runner == nil {
				runner = &fakeRunner{}
			}

			res := execute(t, runner, tt.args...)

			assert.Equal(t, tt.code, res.code)
			assert.Contains(t, res.stderr, tt.stderr)
			if tt.usage {
				assert.Contains(t, res.stdout, "Usage:")
			} else {
				assert.NotContains(t, res.stdout, "Usage:")
			}
		})
	}
}

func TestCLI_ManagementFailureAbortsAllFoundations(t *testing.T) {
	runner := &fakeRunner{failOm: true}

	res := execute(t, runner, "-f", "A,a.example.org,u,p", "-f", "B,b.example.org,u,p")

	assert.Equal(t, ExitFailure, res.code)
	assert.Equal(t, 1, runner.count("om"))
	assert.Empty(t, res.stdout)
}

func TestCLI_Help(t *testing.T) {
	res := execute(t, &fakeRunner{}, "--help")

	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "--foundation")
	assert.Contains(t, res.stdout, "--pivnet-token")
	assert.NotContains(t, res.stdout, "sample-seed")
}

package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipfolio/pipview/internal/config"
)

func TestRootCmd_JSONFlagExists(t *testing.T) {
	jsonOutput = false

	flag := rootCmd.PersistentFlags().Lookup("json")

	assert.NotNil(t, flag, "--json flag should exist")
	assert.Equal(t, "false", flag.DefValue)
	assert.Equal(t, "Output in JSON format", flag.Usage)
}

func TestRootCmd_JSONFlagShorthand(t *testing.T) {
	flag := rootCmd.PersistentFlags().ShorthandLookup("j")

	assert.NotNil(t, flag, "-j shorthand should exist")
	assert.Equal(t, "json", flag.Name)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"base-url", "account", "log-level"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_GetJSONMode(t *testing.T) {
	jsonOutput = false
	assert.False(t, GetJSONMode())

	jsonOutput = true
	assert.True(t, GetJSONMode())

	jsonOutput = false
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"accounts", "instruments", "positions", "trades", "transactions", "account-names", "ui", "config"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	_ = rootCmd.Execute()

	assert.Contains(t, out.String(), "pipview version")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "page", "trades")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown page=trades")

	_, err = newLogger(&buf, "loud")
	assert.Error(t, err)
}

func TestNewLogger_EmptyLevelIsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestPageOptions_Defaults(t *testing.T) {
	var o pageOptions
	assert.Equal(t, config.DefaultTimeoutSeconds*time.Second, o.requestTimeout())
	assert.False(t, o.log().Handler().Enabled(context.Background(), slog.LevelError), "no logger discards")
}

// isolate points config lookups at an empty temp dir and clears the
// environment overrides.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvAccount, "")
	require.NoError(t, os.Unsetenv(config.EnvAccount))

	t.Chdir(dir)
	return dir
}

// testCmd has fresh copies of the root flags so Changed does not leak
// between tests.
func testCmd() *cobra.Command {
	c := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	c.Flags().StringVar(&baseURLFlag, "base-url", "", "")
	c.Flags().StringVar(&accountFlag, "account", "", "")
	c.Flags().StringVar(&logLevelFlag, "log-level", "", "")
	return c
}

func TestLoadPageOptions_Precedence(t *testing.T) {
	dir := isolate(t)

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = "http://file:8000"
	cfg.DefaultAccount = "CTO"
	cfg.StatusFilter = "closed"
	cfg.TimeoutSeconds = 7
	require.NoError(t, config.Save(filepath.Join(dir, "pipview", "config.yaml"), cfg))

	opts, err := loadPageOptions(testCmd(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "http://file:8000", opts.baseURL)
	assert.Equal(t, "CTO", opts.account)
	assert.Equal(t, "closed", opts.status)
	assert.Equal(t, 7*time.Second, opts.timeout)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PIP_ACCOUNT=PEA\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv(config.EnvAccount) })
	opts, err = loadPageOptions(testCmd(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "PEA", opts.account, ".env overrides the file")

	c := testCmd()
	require.NoError(t, c.ParseFlags([]string{"--account", "", "--base-url", "http://flag:1"}))
	opts, err = loadPageOptions(c, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "", opts.account, "an explicit empty flag selects all accounts")
	assert.Equal(t, "http://flag:1", opts.baseURL)
}

func TestLoadPageOptions_BadLogLevel(t *testing.T) {
	isolate(t)

	c := testCmd()
	require.NoError(t, c.ParseFlags([]string{"--log-level", "chatty"}))

	_, err := loadPageOptions(c, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLoadPageOptions_EmptyLogLevelFlag(t *testing.T) {
	isolate(t)

	c := testCmd()
	require.NoError(t, c.ParseFlags([]string{"--log-level", ""}))

	opts, err := loadPageOptions(c, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, opts.logger)
}

func TestLoadPageOptions_BadStatusInFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "pipview", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte("status_filter: opn\n"), 0600))

	_, err := loadPageOptions(testCmd(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status_filter")
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"enrich", "dedupe", "lastpurchase", "scrape", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "prospect-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommand_SharedWorkbookFlags(t *testing.T) {
	for _, name := range []string{"input", "output"} {
		flag := rootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "root command should have --%s flag", name)
	}
}

func TestEnrichCommand_Flags(t *testing.T) {
	flag := enrichCmd.Flags().Lookup("max-rows")
	require.NotNil(t, flag, "enrich command should have --max-rows flag")
	assert.Equal(t, "0", flag.DefValue)

	noAPI := enrichCmd.Flags().Lookup("no-api")
	require.NotNil(t, noAPI, "enrich command should have --no-api flag")
	assert.Equal(t, "false", noAPI.DefValue)
}

func TestScrapeCommand_RequiredFlags(t *testing.T) {
	flag := scrapeCmd.Flags().Lookup("url")
	require.NotNil(t, flag, "scrape command should have --url flag")
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

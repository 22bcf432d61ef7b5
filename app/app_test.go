package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDumpMasksSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "very-secret")

	for _, asJSON := range []bool{false, true} {
		var out bytes.Buffer

		rootCmd.SetOut(&out)
		rootCmd.SetArgs(func() []string {
			args := []string{"config", "dump", "--config", "../etc"}
			if asJSON {
				args = append(args, "--json")
			}

			return args
		}())

		require.NoError(t, rootCmd.Execute())
		assert.NotContains(t, out.String(), "very-secret")
		assert.Contains(t, out.String(), "***")
	}

	dumpJSON = false
}

func TestPromoteNeedsEmail(t *testing.T) {
	rootCmd.SetArgs([]string{"promote"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	require.Error(t, rootCmd.Execute())
}

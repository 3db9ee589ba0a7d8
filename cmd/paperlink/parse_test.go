// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperlink/pkg/types"
)

func newParseFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "parse"}
	cmd.Flags().String("source", "", "")
	cmd.Flags().Bool("no-fallback", false, "")
	cmd.Flags().String("user", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestSourceOrder(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		configured []types.Source
		want       []types.Source
	}{
		{
			name: "defaults to feed then rendered",
			want: []types.Source{types.SourceFeed, types.SourceRendered},
		},
		{
			name: "source flag moves rendered first",
			args: []string{"--source", "rendered"},
			want: []types.Source{types.SourceRendered, types.SourceFeed},
		},
		{
			name: "no fallback keeps only the first",
			args: []string{"--source", "rendered", "--no-fallback"},
			want: []types.Source{types.SourceRendered},
		},
		{
			name:       "configured order is respected",
			configured: []types.Source{types.SourceRendered},
			want:       []types.Source{types.SourceRendered},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sourceOrder(newParseFlags(t, tt.args...), tt.configured)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceOrderUnknown(t *testing.T) {
	_, err := sourceOrder(newParseFlags(t, "--source", "pdf"), nil)
	assert.Error(t, err)
}

func TestActingUserPrecedence(t *testing.T) {
	loadedSecrets = map[string]string{"default-user": "from-secret"}
	t.Cleanup(func() { loadedSecrets = nil })

	assert.Equal(t, "from-flag", actingUser(newParseFlags(t, "--user", "from-flag"), types.IngestConfig{ActingUser: "from-config"}))
	assert.Equal(t, "from-config", actingUser(newParseFlags(t), types.IngestConfig{ActingUser: "from-config"}))
	assert.Equal(t, "from-secret", actingUser(newParseFlags(t), types.IngestConfig{}))
}

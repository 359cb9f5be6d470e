// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ostree_test

import (
	"context"
	"testing"

	"github.com/aibor/sandboxvm/internal/ostree"
	"github.com/aibor/sandboxvm/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStatus = `{
  "deployments": [
    {
      "id": "fedora-abc.0",
      "osname": "fedora",
      "serial": 1,
      "checksum": "4f1c0e9a",
      "booted": true,
      "version": "41.20241101.0"
    },
    {
      "osname": "fedora",
      "serial": 0,
      "checksum": "77aa0e00",
      "booted": false
    }
  ],
  "transaction": null
}`

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		expected    string
		expectedErr error
	}{
		{
			name:     "first deployment",
			data:     testStatus,
			expected: "/sysroot/ostree/deploy/fedora/deploy/4f1c0e9a.1",
		},
		{
			name:        "no deployments",
			data:        `{"deployments": []}`,
			expectedErr: ostree.ErrNoDeployment,
		},
		{
			name:        "incomplete",
			data:        `{"deployments": [{"serial": 0}]}`,
			expectedErr: ostree.ErrIncompleteDeployment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deployment, err := ostree.ParseStatus([]byte(tt.data))
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr == nil {
				assert.Equal(t, tt.expected, deployment.Path())
			}
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		_, err := ostree.ParseStatus([]byte("not json"))
		require.Error(t, err)
	})
}

func TestResolverDeploymentRoot(t *testing.T) {
	dir := t.TempDir()

	t.Run("success", func(t *testing.T) {
		binary := sys.WriteExecutable(t, dir, "rpm-ostree",
			`[ "$*" = "status -b --json" ] || { echo "bad args: $*" >&2; exit 2; }
cat <<'EOF'
`+testStatus+`
EOF`)

		resolver := &ostree.Resolver{Binary: binary}

		root, err := resolver.DeploymentRoot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/sysroot/ostree/deploy/fedora/deploy/4f1c0e9a.1", root)
	})

	t.Run("host command", func(t *testing.T) {
		prefix := sys.WriteExecutable(t, dir, "spawn",
			`[ "$1" = "--host" ] || exit 3; shift; exec "$@"`)
		binary := sys.WriteExecutable(t, dir, "rpm-ostree-prefixed",
			`cat <<'EOF'
`+testStatus+`
EOF`)

		resolver := &ostree.Resolver{
			HostCommand: sys.HostCommand{prefix, "--host"},
			Binary:      binary,
		}

		root, err := resolver.DeploymentRoot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/sysroot/ostree/deploy/fedora/deploy/4f1c0e9a.1", root)
	})

	t.Run("command fails", func(t *testing.T) {
		binary := sys.WriteExecutable(t, dir, "rpm-ostree-broken",
			`echo "error: not an ostree system" >&2; exit 1`)

		resolver := &ostree.Resolver{Binary: binary}

		_, err := resolver.DeploymentRoot(context.Background())
		require.ErrorIs(t, err, &sys.ExecError{})
		assert.ErrorContains(t, err, "not an ostree system")
	})
}

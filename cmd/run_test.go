package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     runConfig
		wantErr string
	}{
		{
			name: "complete",
			cfg:  runConfig{resourceType: "s3-bucket", name: "logs"},
		},
		{
			name:    "missing type",
			cfg:     runConfig{name: "logs"},
			wantErr: "resource type is required",
		},
		{
			name:    "missing name",
			cfg:     runConfig{resourceType: "s3-bucket"},
			wantErr: "resource name is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateConfig(tc.cfg)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", resolvePath("/base", ""))
	assert.Equal(t, "/abs/file.yaml", resolvePath("/base", "/abs/file.yaml"))
	assert.Equal(t, filepath.Join("/base", "rel.yaml"), resolvePath("/base", "rel.yaml"))
}

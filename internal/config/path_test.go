package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SIFT_TEST_DIR", "/srv/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/sift.db", filepath.Join(home, "sift.db")},
		{"$SIFT_TEST_DIR/sift.db", "/srv/data/sift.db"},
		{"/abs/path.db", "/abs/path.db"},
		{"relative.db", "relative.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.local/share/sift/sift.db", DatabasePath(""))
	assert.Equal(t, "/tmp/x.db", DatabasePath("/tmp/x.db"))
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, ',', Delimiter(""))
	assert.Equal(t, '\t', Delimiter("tab"))
	assert.Equal(t, '\t', Delimiter(`\t`))
	assert.Equal(t, ';', Delimiter(";"))
	assert.Equal(t, '|', Delimiter("|x"))
}

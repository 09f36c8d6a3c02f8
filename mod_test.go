package cwcounter

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_Output(t *testing.T) {
	// The standard output is reserved to the results of the commands.
	require.True(t, logout.Out == os.Stderr)
}

package batch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsInfoCmd(t *testing.T) {
	t.Parallel()

	require.True(t, IsInfoCmd(NewInfoCmdError("--version")))
	require.True(t, IsInfoCmd(fmt.Errorf("wrapped: %w", NewInfoCmdError("--version"))))
	require.False(t, IsInfoCmd(errors.New("parsing options: flag provided but not defined")))
	require.False(t, IsInfoCmd(nil))
}

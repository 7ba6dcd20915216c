package exec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrefixWriter(&buf, "  │ ")

	n, err := w.Write([]byte("added 12 packages\nfound 0 vuln"))
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	assert.Equal(t, "  │ added 12 packages\n", buf.String())

	_, err = w.Write([]byte("erabilities\n"))
	require.NoError(t, err)
	assert.Equal(t, "  │ added 12 packages\n  │ found 0 vulnerabilities\n", buf.String())
}

func TestPrefixWriter_Flush(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrefixWriter(&buf, "> ")

	_, _ = w.Write([]byte("partial"))
	assert.Empty(t, buf.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "> partial\n", buf.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "> partial\n", buf.String())
}

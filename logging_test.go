package voxcollide

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	var b strings.Builder
	logs.SetInlineEncoder()
	logs.SetLogger(func(e logs.Entry) {
		fmt.Fprint(&b, e)
	})

	l := NewDefaultLogger("chunks", false)
	require.False(t, l.DebugEnabled())

	l.Debugf("hidden %d", 1)
	assert.Empty(t, b.String())

	l.Infof("loaded %d chunks", 12)
	out := b.String()
	assert.Contains(t, out, "loaded 12 chunks")
	assert.Contains(t, out, "chunks")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	l.Infof("dropped")
}

package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuiltins(t *testing.T) {
	tbl := NewTable()

	p, ok := tbl.Resolve(Classic)
	require.True(t, ok)
	assert.Equal(t, 1500, p.WorkSeconds)
	assert.Equal(t, 300, p.BreakSeconds)
	assert.Equal(t, "25 / 5", p.Label)

	p, ok = tbl.Resolve(Long)
	require.True(t, ok)
	assert.Equal(t, 3000, p.WorkSeconds)
	assert.Equal(t, 600, p.BreakSeconds)
	assert.Equal(t, "50 / 10", p.Label)

	p, ok = tbl.Resolve(Custom)
	require.True(t, ok)
	assert.Equal(t, "Custom", p.Label)
}

func TestResolveUnknown(t *testing.T) {
	tbl := NewTable()
	_, ok := tbl.Resolve("90_15")
	assert.False(t, ok)
	assert.False(t, tbl.Has("90_15"))
	assert.True(t, tbl.Has(Custom))
}

func TestCustomLabelUntilSet(t *testing.T) {
	tbl := NewTable()
	assert.False(t, tbl.CustomSet())

	p, _ := tbl.Resolve(Custom)
	assert.Equal(t, "Custom", p.Label)
	assert.Equal(t, 1500, p.WorkSeconds)

	tbl.SetCustom(25, 5)
	assert.True(t, tbl.CustomSet())
	p, _ = tbl.Resolve(Custom)
	assert.Equal(t, "25 / 5", p.Label)
}

func TestSetCustomClamps(t *testing.T) {
	tbl := NewTable()

	w, b := tbl.SetCustom(0, 999)
	assert.Equal(t, 1, w)
	assert.Equal(t, 60, b)

	p, _ := tbl.Resolve(Custom)
	assert.Equal(t, 60, p.WorkSeconds)
	assert.Equal(t, 3600, p.BreakSeconds)
	assert.Equal(t, "1 / 60", p.Label)

	w, b = tbl.SetCustom(500, -3)
	assert.Equal(t, 120, w)
	assert.Equal(t, 1, b)
}

func TestSetCustomLeavesBuiltinsAlone(t *testing.T) {
	tbl := NewTable()
	tbl.SetCustom(40, 8)

	p, _ := tbl.Resolve(Classic)
	assert.Equal(t, 1500, p.WorkSeconds)

	w, b := tbl.Custom()
	assert.Equal(t, 40, w)
	assert.Equal(t, 8, b)

	p, _ = tbl.Resolve(Custom)
	assert.Equal(t, "40 / 8", p.Label)
}

func TestNextWraps(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, Long, tbl.Next(Classic))
	assert.Equal(t, Custom, tbl.Next(Long))
	assert.Equal(t, Classic, tbl.Next(Custom))
	assert.Equal(t, Classic, tbl.Next("nope"))
	assert.Equal(t, []string{Classic, Long, Custom}, tbl.IDs())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2, Clamp(1, 2, 10))
	assert.Equal(t, 10, Clamp(11, 2, 10))
	assert.Equal(t, 5, Clamp(5, 2, 10))
}

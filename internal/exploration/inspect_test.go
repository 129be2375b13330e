package exploration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExamineFailsWithoutPriorInspect(t *testing.T) {
	p := NewProgress()
	_, err := Examine(p, "statue", testStrings())
	require.Error(t, err)
}

func TestSearchFailsWithoutPriorExamine(t *testing.T) {
	p := NewProgress()
	p["statue"] = TierInspected
	_, err := Search(p, "statue", testStrings())
	require.Error(t, err)
}

func TestInspectFirstTimeThenSubsequent(t *testing.T) {
	p := NewProgress()
	strs := testStrings()

	out, err := Inspect(p, "statue", strs)
	require.NoError(t, err)
	require.Contains(t, out, "A statue, eroded beyond recognition.")
	require.Equal(t, TierInspected, p["statue"])

	out2, err := Inspect(p, "statue", strs)
	require.NoError(t, err)
	require.Contains(t, out2, "The statue still gives you nothing.")
}

func TestGatedChainEndToEnd(t *testing.T) {
	p := NewProgress()
	strs := testStrings()

	_, err := Inspect(p, "statue", strs)
	require.NoError(t, err)

	examineOut, err := Examine(p, "statue", strs)
	require.NoError(t, err)
	require.Contains(t, examineOut, "hairline seam")
	require.True(t, p.HasExaminedMarker("statue"))

	searchOut, err := Search(p, "statue", strs)
	require.NoError(t, err)
	require.Contains(t, searchOut, "wedged inside the seam")
}

func TestHasExaminedMarkerFalseBeforeExamine(t *testing.T) {
	p := NewProgress()
	require.False(t, p.HasExaminedMarker("statue"))
	p["statue"] = TierInspected
	require.False(t, p.HasExaminedMarker("statue"))
}

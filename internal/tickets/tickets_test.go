package tickets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidth(t *testing.T) {
	assert.Equal(t, 2, Width(50))
	assert.Equal(t, 2, Width(100))
	assert.Equal(t, 3, Width(101))
	assert.Equal(t, 3, Width(1000))
	assert.Equal(t, 4, Width(1001))
	assert.Equal(t, 4, Width(10000))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "01", Format(1, 100))
	assert.Equal(t, "001", Format(1, 500))
	assert.Equal(t, "0042", Format(42, 5000))
	assert.Equal(t, "100", Format(100, 100))
}

func TestAllNumbers(t *testing.T) {
	numbers := AllNumbers(100)
	require.Len(t, numbers, 100)
	assert.Equal(t, "01", numbers[0])
	assert.Equal(t, "100", numbers[99])
}

func TestConflicts(t *testing.T) {
	taken := []string{"01", "05", "09"}

	assert.Empty(t, Conflicts([]string{"02", "03"}, taken))
	assert.Equal(t, []string{"05"}, Conflicts([]string{"04", "05"}, taken))
	assert.Equal(t, []string{"01", "09"}, Conflicts([]string{"01", "09"}, taken))
}

func TestRemove(t *testing.T) {
	list := []string{"01", "02", "03", "04"}

	assert.Equal(t, []string{"01", "04"}, Remove(list, []string{"02", "03"}))
	assert.Equal(t, []string{"01", "02", "03", "04"}, Remove(list, []string{"99"}))
	assert.Empty(t, Remove(list, list))
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, 100, Available(100, nil, nil))
	assert.Equal(t, 97, Available(100, []string{"01"}, []string{"02", "03"}))
}

func TestDraw(t *testing.T) {
	drawn, ok := Draw(100, []string{"01", "02"}, 5)
	require.True(t, ok)
	require.Len(t, drawn, 5)

	seen := make(map[string]bool)
	for _, n := range drawn {
		assert.NotEqual(t, "01", n)
		assert.NotEqual(t, "02", n)
		assert.False(t, seen[n], "drew %s twice", n)
		seen[n] = true
	}
}

func TestDrawNotEnough(t *testing.T) {
	taken := AllNumbers(10)
	_, ok := Draw(10, taken[:8], 3)
	assert.False(t, ok)

	drawn, ok := Draw(10, taken[:8], 2)
	require.True(t, ok)
	assert.Len(t, drawn, 2)
}

func TestUniqueOnce(t *testing.T) {
	assert.True(t, UniqueOnce([]string{"01"}, []string{"01", "02"}))
	assert.False(t, UniqueOnce([]string{"01"}, []string{"01", "01"}))
	assert.False(t, UniqueOnce([]string{"03"}, []string{"01", "02"}))
}

func TestSameSet(t *testing.T) {
	assert.True(t, SameSet([]string{"01", "02"}, []string{"02", "01"}))
	assert.False(t, SameSet([]string{"01"}, []string{"01", "01"}))
	assert.False(t, SameSet([]string{"01", "02"}, []string{"01", "03"}))
	assert.True(t, SameSet(nil, nil))
}

func TestTrimCount(t *testing.T) {
	assert.Equal(t, []string{"01"}, TrimCount([]string{"01", "02", "03"}, 2))
	assert.Empty(t, TrimCount([]string{"01", "02"}, 2))
	assert.Empty(t, TrimCount([]string{"01"}, 5))
	assert.Equal(t, []string{"01"}, TrimCount([]string{"01"}, 0))
}

package board

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkViewed(t *testing.T) {
	value, first := markViewed("", 3)
	require.True(t, first)
	require.Equal(t, "[3]", value)

	value, first = markViewed(value, 15)
	require.True(t, first)
	require.Equal(t, "[3][15]", value)

	value, first = markViewed(value, 3)
	require.False(t, first)
	require.Equal(t, "[3][15]", value)

	// [1]이 [15]의 일부로 오인되지 않아야 합니다.
	_, first = markViewed(value, 1)
	require.True(t, first)
}

func TestMarkViewedDropsGarbageAndCaps(t *testing.T) {
	value, first := markViewed("garbage[7]", 8)
	require.True(t, first)
	require.Equal(t, "[7][8]", value)

	value = ""
	for i := uint64(1); i <= viewCookieMaxKeep+5; i++ {
		value, _ = markViewed(value, i)
	}
	require.Equal(t, viewCookieMaxKeep, strings.Count(value, "["))
	require.False(t, strings.Contains(value, "[1]"))
	require.True(t, strings.HasSuffix(value, "[105]"))
}

package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     []string
	}{
		{
			name:     "empty text yields no blocks",
			text:     "",
			maxChars: 10,
			want:     nil,
		},
		{
			name:     "shorter than max",
			text:     "hello",
			maxChars: 10,
			want:     []string{"hello"},
		},
		{
			name:     "exact multiple",
			text:     "abcdef",
			maxChars: 3,
			want:     []string{"abc", "def"},
		},
		{
			name:     "remainder in last block",
			text:     "abcdefg",
			maxChars: 3,
			want:     []string{"abc", "def", "g"},
		},
		{
			name:     "multi-byte runes counted as characters",
			text:     "héllo wörld",
			maxChars: 4,
			want:     []string{"héll", "o wö", "rld"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := Split(KindSummary, tt.text, tt.maxChars)
			require.NoError(t, err)
			require.Len(t, blocks, len(tt.want))

			for i, b := range blocks {
				assert.Equal(t, i, b.Index)
				assert.Equal(t, KindSummary, b.Kind)
				assert.Equal(t, tt.want[i], b.Text)
			}
		})
	}
}

func TestSplitInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -2000} {
		_, err := Split(KindTranscript, "some text", size)
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	}
}

func TestSplitReconstruction(t *testing.T) {
	inputs := []string{
		"",
		"a",
		strings.Repeat("x", 1999),
		strings.Repeat("x", 2000),
		strings.Repeat("x", 2001),
		strings.Repeat("chữ ký số ", 777),
	}

	for _, text := range inputs {
		for _, n := range []int{1, 7, 2000} {
			blocks, err := Split(KindTranscript, text, n)
			require.NoError(t, err)

			var sb strings.Builder
			for _, b := range blocks {
				sb.WriteString(b.Text)
			}
			assert.Equal(t, text, sb.String())

			runeCount := len([]rune(text))
			wantBlocks := (runeCount + n - 1) / n
			assert.Len(t, blocks, wantBlocks)

			// Every block except possibly the last is exactly n characters.
			for i, b := range blocks {
				if i < len(blocks)-1 {
					assert.Len(t, []rune(b.Text), n)
				} else {
					assert.LessOrEqual(t, len([]rune(b.Text)), n)
				}
			}
		}
	}
}

func TestSplitFiveThousandCharSummary(t *testing.T) {
	blocks, err := Split(KindSummary, strings.Repeat("s", 5000), 2000)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Len(t, blocks[0].Text, 2000)
	assert.Len(t, blocks[1].Text, 2000)
	assert.Len(t, blocks[2].Text, 1000)
}

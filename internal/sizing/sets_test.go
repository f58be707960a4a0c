package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
)

func set(id int64, name string, thumb, index, middle, ring, pinky int) models.SizeSet {
	return models.SizeSet{
		ID:      domain.SizeSetID(id),
		ChartID: "default",
		Name:    name,
		Sizes: models.FingerSizes{
			Thumb:  thumb,
			Index:  index,
			Middle: middle,
			Ring:   ring,
			Pinky:  pinky,
		},
	}
}

func TestRankSets(t *testing.T) {
	recommended := [5]int{3, 5, 4, 6, 8}

	t.Run("exact set ranks first with diff zero", func(t *testing.T) {
		sets := []models.SizeSet{
			set(1, "Almond Nude", 3, 5, 4, 6, 9), // diff 1
			set(2, "Coffin Noir", 3, 5, 4, 6, 8), // diff 0
			set(3, "Square Rose", 2, 5, 4, 7, 8), // diff 2
		}

		got := RankSets(recommended, sets)
		require.Len(t, got, 3)

		assert.Equal(t, "Coffin Noir", got[0].SetName)
		assert.Equal(t, domain.SizeSetID(2), got[0].SetID)
		assert.Equal(t, 0, got[0].Diff)
		assert.True(t, got[0].Exact)

		assert.Equal(t, "Almond Nude", got[1].SetName)
		assert.Equal(t, 1, got[1].Diff)
		assert.False(t, got[1].Exact)

		assert.Equal(t, "Square Rose", got[2].SetName)
		assert.Equal(t, 2, got[2].Diff)
	})

	t.Run("sets differing in more than two fingers are dropped", func(t *testing.T) {
		sets := []models.SizeSet{
			set(1, "Near Miss", 3, 5, 4, 7, 9),  // diff 2, kept
			set(2, "Wrong Hand", 4, 6, 5, 6, 8), // diff 3, dropped
			set(3, "Way Off", 0, 0, 0, 0, 0),    // diff 5, dropped
		}

		got := RankSets(recommended, sets)
		require.Len(t, got, 1)
		assert.Equal(t, "Near Miss", got[0].SetName)
		assert.Equal(t, 2, got[0].Diff)
	})

	t.Run("equal diff preserves input order", func(t *testing.T) {
		sets := []models.SizeSet{
			set(9, "First", 3, 5, 4, 6, 9),
			set(2, "Second", 3, 5, 4, 7, 8),
			set(5, "Third", 4, 5, 4, 6, 8),
		}

		got := RankSets(recommended, sets)
		require.Len(t, got, 3)
		assert.Equal(t, "First", got[0].SetName)
		assert.Equal(t, "Second", got[1].SetName)
		assert.Equal(t, "Third", got[2].SetName)
	})

	t.Run("no sets yields empty ranking, not nil panic", func(t *testing.T) {
		got := RankSets(recommended, nil)
		assert.Empty(t, got)
	})

	t.Run("every finger counts once", func(t *testing.T) {
		// Differs only in thumb, by a large margin. Magnitude is
		// irrelevant, only the count of disagreeing fingers.
		sets := []models.SizeSet{set(1, "Big Thumb", 9, 5, 4, 6, 8)}

		got := RankSets(recommended, sets)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].Diff)
		assert.False(t, got[0].Exact)
	})
}

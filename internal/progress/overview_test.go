package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
)

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandStrong, BandFor(81))
	assert.Equal(t, BandFair, BandFor(80))
	assert.Equal(t, BandFair, BandFor(51))
	assert.Equal(t, BandWeak, BandFor(50))
	assert.Equal(t, BandWeak, BandFor(0))
	assert.Equal(t, "strong", BandStrong.String())
}

func TestBuildOverview(t *testing.T) {
	c := catalog.Default()
	topics := c.All()
	require.GreaterOrEqual(t, len(topics), 2)

	p := Default()
	p.CompletedTopics = []string{topics[0].ID, "not-in-catalog"}
	p.QuizScores[topics[0].ID] = 90
	p.QuizScores[topics[1].ID] = 60
	p.QuizScores["not-in-catalog"] = 100
	for i := range 7 {
		p.RecentActivity = append(p.RecentActivity, Activity{Kind: KindQuiz, Timestamp: int64(100 - i)})
	}

	ov := BuildOverview(c, p)
	assert.Equal(t, len(topics), ov.TotalTopics)
	assert.Equal(t, 1, ov.Completed)
	assert.Equal(t, (150*2+len(topics))/(2*len(topics)), ov.OverallMastery)
	require.Len(t, ov.Topics, len(topics))

	first := ov.Topics[0]
	assert.Equal(t, "W1", first.Label)
	assert.True(t, first.Studied)
	assert.True(t, first.Attempted)
	assert.Equal(t, BandStrong, first.Band)
	assert.Equal(t, BandFair, ov.Topics[1].Band)
	assert.False(t, ov.Topics[2].Attempted)

	require.Len(t, ov.Recent, 5)
	assert.EqualValues(t, 100, ov.Recent[0].Timestamp)
}

func TestBuildOverview_Empty(t *testing.T) {
	ov := BuildOverview(catalog.Default(), Default())
	assert.Equal(t, 0, ov.OverallMastery)
	assert.Equal(t, 0, ov.Completed)
	assert.Empty(t, ov.Recent)
}

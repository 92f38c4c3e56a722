package progress

import "github.com/abhishaiv/AI-Study-Master/internal/catalog"

// Band buckets a best score for display.
type Band int

const (
	BandWeak Band = iota
	BandFair
	BandStrong
)

func (b Band) String() string {
	switch b {
	case BandStrong:
		return "strong"
	case BandFair:
		return "fair"
	default:
		return "weak"
	}
}

// BandFor returns the band for a percentage: >80 strong, >50 fair.
func BandFor(pct int) Band {
	switch {
	case pct > 80:
		return BandStrong
	case pct > 50:
		return BandFair
	default:
		return BandWeak
	}
}

// TopicRow is one dashboard line.
type TopicRow struct {
	Topic     catalog.Topic
	Label     string
	BestScore int
	Attempted bool
	Studied   bool
	Band      Band
}

// Overview holds the dashboard figures derived from progress.
type Overview struct {
	OverallMastery int
	Completed      int
	TotalTopics    int
	Topics         []TopicRow
	Recent         []Activity
}

// recentShown is how many activity entries the dashboard lists.
const recentShown = 5

// BuildOverview computes dashboard figures over the catalog. Scores for
// topics not in the catalog are ignored.
func BuildOverview(c *catalog.Catalog, p *UserProgress) Overview {
	topics := c.All()
	ov := Overview{TotalTopics: len(topics)}

	sum := 0
	for _, t := range topics {
		best, ok := p.BestScore(t.ID)
		row := TopicRow{
			Topic:     t,
			Label:     c.ShortLabel(t.ID),
			BestScore: best,
			Attempted: ok,
			Studied:   p.HasCompleted(t.ID),
			Band:      BandFor(best),
		}
		if row.Studied {
			ov.Completed++
		}
		sum += best
		ov.Topics = append(ov.Topics, row)
	}
	if len(topics) > 0 {
		ov.OverallMastery = (2*sum + len(topics)) / (2 * len(topics))
	}

	n := min(recentShown, len(p.RecentActivity))
	ov.Recent = append([]Activity(nil), p.RecentActivity[:n]...)
	return ov
}

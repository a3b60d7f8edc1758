package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/iav/domain"
)

func rec(id int, typ domain.MediaType, takenAt string) domain.MediaRecord {
	t, _ := time.Parse(time.RFC3339, takenAt)
	return domain.MediaRecord{ID: id, URI: "m.jpg", Type: typ, TakenAt: t, TakenAtRaw: takenAt}
}

func ids(records []domain.MediaRecord) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestDedupe_OneRecordPerID(t *testing.T) {
	in := []domain.MediaRecord{
		rec(1, domain.MediaPost, "2024-01-01T00:00:00Z"),
		rec(2, domain.MediaPost, "2024-01-02T00:00:00Z"),
		{ID: 1, Caption: "duplicate", Type: domain.MediaStory},
		rec(3, domain.MediaStory, "2024-01-03T00:00:00Z"),
		rec(2, domain.MediaPost, "2024-01-02T00:00:00Z"),
	}

	out := Dedupe(in)
	assert.Equal(t, []int{1, 2, 3}, ids(out))
	assert.Empty(t, out[0].Caption, "first-seen record wins")
	assert.Len(t, in, 5, "input must not be modified")
}

func TestSelect_FiltersAndSortsNewestFirst(t *testing.T) {
	in := []domain.MediaRecord{
		rec(1, domain.MediaPost, "2023-05-01T00:00:00Z"),
		rec(2, domain.MediaStory, "2024-01-01T00:00:00Z"),
		rec(3, domain.MediaPost, "2024-02-01T00:00:00Z"),
		rec(4, domain.MediaPost, "not-a-date"),
		rec(5, domain.MediaPost, "2023-12-31T23:00:00Z"),
	}

	assert.Equal(t, []int{3, 5, 1, 4}, ids(Select(in, TabPosts)))
	assert.Equal(t, []int{2}, ids(Select(in, TabStories)))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(in), "input order must be preserved")
}

func TestGroupByMonth_MostRecentMonthFirst(t *testing.T) {
	in := Select([]domain.MediaRecord{
		rec(1, domain.MediaPost, "2024-01-05T00:00:00Z"),
		rec(2, domain.MediaPost, "2024-03-10T00:00:00Z"),
		rec(3, domain.MediaPost, "2024-01-20T00:00:00Z"),
		rec(4, domain.MediaPost, "2023-03-15T00:00:00Z"),
		rec(5, domain.MediaPost, "2024-03-01T00:00:00Z"),
		rec(6, domain.MediaPost, "???"),
	}, TabPosts)

	buckets := GroupByMonth(in)
	require.Len(t, buckets, 4)
	assert.Equal(t, "March 2024", buckets[0].Label)
	assert.Equal(t, []int{2, 5}, ids(buckets[0].Items))
	assert.Equal(t, "January 2024", buckets[1].Label)
	assert.Equal(t, []int{3, 1}, ids(buckets[1].Items))
	assert.Equal(t, "March 2023", buckets[2].Label)
	assert.Equal(t, "N/A", buckets[3].Label)
}

func TestGroupByMonth_Empty(t *testing.T) {
	assert.Empty(t, GroupByMonth(nil))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "N/A", FormatDate(time.Time{}))
	assert.Equal(t, "Feb 9, 2024", FormatDate(time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)))
}

func TestPrefs_StateTransitions(t *testing.T) {
	var p Prefs
	assert.Equal(t, TabPosts, p.Tab())
	assert.Equal(t, LayoutGrid, p.Layout())

	p.NextTab(1)
	assert.Equal(t, TabStories, p.Tab())
	p.NextTab(1)
	assert.Equal(t, TabPosts, p.Tab())
	p.NextTab(-1)
	assert.Equal(t, TabStories, p.Tab())

	p.SetTab(Tab(9))
	assert.Equal(t, TabStories, p.Tab(), "unknown tab is ignored")

	p.ToggleLayout()
	assert.Equal(t, LayoutTimeline, p.Layout())
	p.ToggleLayout()
	assert.Equal(t, LayoutGrid, p.Layout())
	p.SetLayout(LayoutTimeline)
	assert.Equal(t, "Timeline", p.Layout().String())
}

package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"hopefund/internal/campaign"
	"hopefund/internal/debounce"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var loadTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDemoCatalog(t *testing.T) {
	t.Parallel()

	campaigns, err := Demo(loadTime)
	require.NoError(t, err)
	require.Len(t, campaigns, 8)

	first := campaigns[0]
	assert.Equal(t, "education-001", first.ID)
	assert.Equal(t, campaign.CategoryEducation, first.Category)
	assert.Equal(t, 45000.0, first.Raised)
	assert.Equal(t, 100000.0, first.Goal)
	assert.Equal(t, 127, first.DonorsCount)
	assert.Equal(t, "Shiksha Foundation", first.OrganizerName)
	assert.Equal(t, loadTime.Add(-5*day), first.CreatedAt)
	assert.Equal(t, loadTime.Add(30*day), first.Deadline)

	sorted := campaign.Sort(campaigns, campaign.SortRecent)
	assert.Equal(t, "disaster-003", sorted[0].ID)
}

func TestParseMalformedAmounts(t *testing.T) {
	t.Parallel()

	doc := []byte(`
campaigns:
  - id: a
    category: community
    raised: "lots"
    goal: "1,20,000"
  - id: b
    category: Healthcare
    raised: 10
    goal: -5
`)
	campaigns, err := Parse(doc, loadTime)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, 0.0, campaigns[0].Raised)
	assert.Equal(t, 120000.0, campaigns[0].Goal)
	assert.Equal(t, campaign.CategoryHealthcare, campaigns[1].Category)
	assert.Equal(t, 0.0, campaigns[1].Goal)
	assert.Equal(t, 0, campaign.Percentage(campaigns[1].Raised, campaigns[1].Goal))
}

func TestParseAbsoluteDates(t *testing.T) {
	t.Parallel()

	doc := []byte(`
campaigns:
  - id: a
    category: education
    created_at: 2026-01-02T03:04:05Z
    deadline: 2026-02-01T00:00:00Z
    created_days_ago: 99
`)
	campaigns, err := Parse(doc, loadTime)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), campaigns[0].CreatedAt.UTC())
	assert.True(t, campaigns[0].Ended(loadTime))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		doc  string
		want error
	}{
		{"missing id", "campaigns:\n  - category: education\n", ErrMissingID},
		{"unknown category", "campaigns:\n  - id: a\n    category: sports\n", ErrUnknownCategory},
		{"duplicate", "campaigns:\n  - id: a\n    category: education\n  - id: a\n    category: education\n", ErrDuplicateID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.doc), loadTime)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := Parse([]byte("campaigns: ["), loadTime)
	assert.Error(t, err)
}

func TestStaticDelayHonoursCancel(t *testing.T) {
	t.Parallel()

	src, err := NewDemo(loadTime, time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = src.Campaigns(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStaticReturnsCopy(t *testing.T) {
	t.Parallel()

	src, err := NewDemo(loadTime, 0)
	require.NoError(t, err)

	got, err := src.Campaigns(context.Background())
	require.NoError(t, err)
	got[0].Title = "changed"

	again, err := src.Campaigns(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Title)
}

func writeCatalog(t *testing.T, path, id string) {
	t.Helper()
	doc := "campaigns:\n  - id: " + id + "\n    category: community\n    goal: 100\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
}

func TestFileSourceReloadKeepsLastGood(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "campaigns.yaml")
	writeCatalog(t, path, "first")

	src, err := OpenFile(path, discard(), WithNow(func() time.Time { return loadTime }))
	require.NoError(t, err)
	assert.Equal(t, loadTime, src.LoadedAt())

	writeCatalog(t, path, "second")
	require.NoError(t, src.Reload())
	got, err := src.Campaigns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", got[0].ID)

	require.NoError(t, os.WriteFile(path, []byte("campaigns: ["), 0o600))
	assert.Error(t, src.Reload())
	got, err = src.Campaigns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", got[0].ID)
}

func TestOpenFileMissing(t *testing.T) {
	t.Parallel()

	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.yaml"), discard())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSourceWatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "campaigns.yaml")
	writeCatalog(t, path, "before")
	src, err := OpenFile(path, discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx, debounce.RealClock) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeCatalog(t, path, "after")

	assert.Eventually(t, func() bool {
		got, err := src.Campaigns(context.Background())
		return err == nil && len(got) == 1 && got[0].ID == "after"
	}, 5*time.Second, 50*time.Millisecond)
}

package bot

import (
	"context"
	"regexp"
	"testing"

	"github.com/kwasu-works/lostfound-bot/models"
	"github.com/kwasu-works/lostfound-bot/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *ReportRepository {
	t.Helper()
	return NewReportRepository(storage.NewMemoryStore())
}

func mustCreateFound(t *testing.T, repo *ReportRepository, reporter, item string) *models.Report {
	t.Helper()
	report, err := models.NewFoundReport(reporter, item, "Cafeteria", "08012345678", "", "photo-1")
	require.NoError(t, err)
	id, err := repo.Create(context.Background(), report)
	require.NoError(t, err)
	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return stored
}

func TestCreateAssignsIDAndCode(t *testing.T) {
	repo := newRepo(t)

	report := mustCreateFound(t, repo, "7", "Keys")
	assert.NotEmpty(t, report.ID)
	assert.Len(t, report.VerificationCode, 6)
	assert.False(t, report.Resolved)
	assert.Nil(t, report.ResolvedAt)
	assert.False(t, report.CreatedAt.IsZero())
}

func TestCreateRejectsMissingFields(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	var verr *models.ValidationError

	_, err := repo.Create(ctx, &models.Report{Kind: models.KindLost, Location: "Library", ReporterID: "7"})
	require.ErrorAs(t, err, &verr)

	_, err = repo.Create(ctx, &models.Report{Kind: models.KindLost, Item: "Keys", ReporterID: "7"})
	require.ErrorAs(t, err, &verr)

	_, err = repo.Create(ctx, &models.Report{Kind: models.KindFound, Item: "Keys", Location: "Cafeteria", ReporterID: "7"})
	require.ErrorAs(t, err, &verr, "found reports require a contact phone")
}

func TestVerificationCodeFormat(t *testing.T) {
	repo := newRepo(t)
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)

	for i := 0; i < 1000; i++ {
		report := mustCreateFound(t, repo, "7", "Keys")
		assert.Regexp(t, pattern, report.VerificationCode)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	report := mustCreateFound(t, repo, "7", "Keys")

	outcome, err := repo.Resolve(ctx, report.ID, report.VerificationCode, "7")
	require.NoError(t, err)
	require.Equal(t, ResolveOK, outcome)

	first, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ResolvedAt)

	outcome, err = repo.Resolve(ctx, report.ID, report.VerificationCode, "7")
	require.NoError(t, err)
	assert.Equal(t, ResolveOK, outcome)

	second, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, first.ResolvedAt.Equal(*second.ResolvedAt), "ResolvedAt must never change after the first success")
}

func TestResolveAuthorizationInvariance(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	report := mustCreateFound(t, repo, "7", "Keys")

	// Wrong requester loses regardless of code correctness.
	outcome, err := repo.Resolve(ctx, report.ID, report.VerificationCode, "8")
	require.NoError(t, err)
	assert.Equal(t, ResolveNotAuthorized, outcome)

	outcome, err = repo.Resolve(ctx, report.ID, "WRONG1", "8")
	require.NoError(t, err)
	assert.Equal(t, ResolveNotAuthorized, outcome)

	stored, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, stored.Resolved)
}

func TestResolveCodeMismatchAndCase(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	report := mustCreateFound(t, repo, "7", "Keys")

	outcome, err := repo.Resolve(ctx, report.ID, "AAAAAA", "7")
	require.NoError(t, err)
	assert.Equal(t, ResolveCodeMismatch, outcome)

	// Codes compare after trimming and uppercasing.
	outcome, err = repo.Resolve(ctx, report.ID, "  "+report.VerificationCode+" ", "7")
	require.NoError(t, err)
	assert.Equal(t, ResolveOK, outcome)
}

func TestResolveUnknownReport(t *testing.T) {
	repo := newRepo(t)

	outcome, err := repo.Resolve(context.Background(), "missing", "AAAAAA", "7")
	require.NoError(t, err)
	assert.Equal(t, ResolveNotFound, outcome)
}

func TestFindByExactName(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	mustCreateFound(t, repo, "7", "Keys")
	mustCreateFound(t, repo, "7", "Key")
	mustCreateFound(t, repo, "7", "My Keys")
	mustCreateFound(t, repo, "7", "  keys  ")
	lost, err := models.NewLostReport("7", "Keys", "Library", "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, lost)
	require.NoError(t, err)

	matches, err := repo.FindByExactName(ctx, "KEYS", models.KindFound)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, models.KindFound, m.Kind)
		assert.True(t, m.NameEquals("keys"))
	}
}

func TestFindByReporter(t *testing.T) {
	repo := newRepo(t)

	mustCreateFound(t, repo, "7", "Keys")
	mustCreateFound(t, repo, "8", "Bag")

	mine, err := repo.FindByReporter(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Keys", mine[0].Item)
}

func TestGetAllEmptyStore(t *testing.T) {
	repo := newRepo(t)

	reports, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

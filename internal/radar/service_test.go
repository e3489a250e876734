package radar

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/reporadar/reporadar-backend/internal/cache"
	appErrors "github.com/reporadar/reporadar-backend/internal/errors"
	radardb "github.com/reporadar/reporadar-backend/internal/radar/gen"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RadarServiceTestSuite represents the test suite for RadarService
type RadarServiceTestSuite struct {
	suite.Suite
	service  *RadarService
	mockRepo *MockRadarRepository
	logger   *logrus.Logger
	ctx      context.Context
	userID   uuid.UUID
}

// MockRadarRepository is a mock implementation of the radardb.Querier interface
type MockRadarRepository struct {
	mock.Mock
}

func (m *MockRadarRepository) AddRadarRepo(ctx context.Context, arg radardb.AddRadarRepoParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockRadarRepository) CountRadarRepos(ctx context.Context, radarID uuid.UUID) (int64, error) {
	args := m.Called(ctx, radarID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRadarRepository) CountRadarsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRadarRepository) CreateRadar(ctx context.Context, arg radardb.CreateRadarParams) (radardb.Radar, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return radardb.Radar{}, args.Error(1)
	}
	return args.Get(0).(radardb.Radar), args.Error(1)
}

func (m *MockRadarRepository) DeleteRadar(ctx context.Context, arg radardb.DeleteRadarParams) (sql.Result, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sql.Result), args.Error(1)
}

func (m *MockRadarRepository) GetRadarById(ctx context.Context, arg radardb.GetRadarByIdParams) (radardb.Radar, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return radardb.Radar{}, args.Error(1)
	}
	return args.Get(0).(radardb.Radar), args.Error(1)
}

func (m *MockRadarRepository) ListRadarRepos(ctx context.Context, radarID uuid.UUID) ([]radardb.ListRadarReposRow, error) {
	args := m.Called(ctx, radarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]radardb.ListRadarReposRow), args.Error(1)
}

func (m *MockRadarRepository) ListRadarsByUser(ctx context.Context, userID uuid.UUID) ([]radardb.ListRadarsByUserRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]radardb.ListRadarsByUserRow), args.Error(1)
}

func (m *MockRadarRepository) ListRadarsContainingRepo(ctx context.Context, arg radardb.ListRadarsContainingRepoParams) ([]uuid.UUID, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRadarRepository) RemoveRadarRepo(ctx context.Context, arg radardb.RemoveRadarRepoParams) (sql.Result, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sql.Result), args.Error(1)
}

func (m *MockRadarRepository) UpdateRadar(ctx context.Context, arg radardb.UpdateRadarParams) (radardb.Radar, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return radardb.Radar{}, args.Error(1)
	}
	return args.Get(0).(radardb.Radar), args.Error(1)
}

func (m *MockRadarRepository) UpsertRepo(ctx context.Context, arg radardb.UpsertRepoParams) (radardb.Repo, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return radardb.Repo{}, args.Error(1)
	}
	return args.Get(0).(radardb.Repo), args.Error(1)
}

// mockSqlResult is a mock implementation of sql.Result for testing
type mockSqlResult struct {
	rowsAffected int64
}

func (m *mockSqlResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m *mockSqlResult) RowsAffected() (int64, error) {
	return m.rowsAffected, nil
}

// SetupSuite sets up the test suite
func (suite *RadarServiceTestSuite) SetupSuite() {
	// Suppress logrus output during tests
	suite.logger = logrus.New()
	suite.logger.SetOutput(io.Discard)
	suite.userID = uuid.New()
}

// SetupTest sets up each individual test
func (suite *RadarServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockRadarRepository{}
	suite.service = NewRadarService(
		suite.logger,
		suite.mockRepo,
		cache.NewInMemoryCache(),
		Limits{MaxRadarsPerUser: 3, MaxReposPerRadar: 5},
		time.Minute,
	)
	suite.ctx = context.Background()
}

// TearDownTest cleans up after each test
func (suite *RadarServiceTestSuite) TearDownTest() {
	suite.mockRepo.ExpectedCalls = nil
}

func (suite *RadarServiceTestSuite) userIDStr() string {
	return suite.userID.String()
}

// newRadar builds a persisted-looking radar owned by the suite user.
func (suite *RadarServiceTestSuite) newRadar(name string) radardb.Radar {
	return radardb.Radar{
		ID:        uuid.New(),
		UserID:    suite.userID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (suite *RadarServiceTestSuite) TestCreateRadarSucceeds() {
	created := suite.newRadar("ml tooling")

	suite.mockRepo.On("CountRadarsByUser", suite.ctx, suite.userID).Return(int64(1), nil)
	suite.mockRepo.On("CreateRadar", suite.ctx, mock.AnythingOfType("gen.CreateRadarParams")).Return(created, nil)

	radar, err := suite.service.CreateRadar(suite.ctx, suite.userIDStr(), CreateRadarRequest{Name: "  ml tooling  "})

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), radar)
	assert.Equal(suite.T(), "ml tooling", radar.Name)

	// The stored name is the trimmed one
	params := suite.mockRepo.Calls[1].Arguments.Get(1).(radardb.CreateRadarParams)
	assert.Equal(suite.T(), "ml tooling", params.Name)
}

func (suite *RadarServiceTestSuite) TestCreateRadarRejectsBlankName() {
	_, err := suite.service.CreateRadar(suite.ctx, suite.userIDStr(), CreateRadarRequest{Name: "   "})

	require.Equal(suite.T(), appErrors.ErrRadarNameNotAllowed, err)
	suite.mockRepo.AssertNotCalled(suite.T(), "CountRadarsByUser", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateRadar", mock.Anything, mock.Anything)
}

func (suite *RadarServiceTestSuite) TestCreateRadarRejectsOverlongName() {
	_, err := suite.service.CreateRadar(suite.ctx, suite.userIDStr(), CreateRadarRequest{
		Name: strings.Repeat("x", maxRadarNameLength+1),
	})

	require.Equal(suite.T(), appErrors.ErrRadarNameNotAllowed, err)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateRadar", mock.Anything, mock.Anything)
}

func (suite *RadarServiceTestSuite) TestCreateRadarEnforcesPerUserLimit() {
	suite.mockRepo.On("CountRadarsByUser", suite.ctx, suite.userID).Return(int64(3), nil)

	_, err := suite.service.CreateRadar(suite.ctx, suite.userIDStr(), CreateRadarRequest{Name: "one too many"})

	require.Equal(suite.T(), appErrors.ErrRadarLimitExceeded, err)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateRadar", mock.Anything, mock.Anything)
}

func (suite *RadarServiceTestSuite) TestCreateRadarMapsUniqueViolation() {
	suite.mockRepo.On("CountRadarsByUser", suite.ctx, suite.userID).Return(int64(0), nil)
	suite.mockRepo.On("CreateRadar", suite.ctx, mock.AnythingOfType("gen.CreateRadarParams")).
		Return(nil, &pq.Error{Code: "23505"})

	_, err := suite.service.CreateRadar(suite.ctx, suite.userIDStr(), CreateRadarRequest{Name: "dupes"})

	require.Equal(suite.T(), appErrors.ErrDuplicateRadar, err)
}

func (suite *RadarServiceTestSuite) TestGetRadarMapsMissingRowToNotFound() {
	radarID := uuid.New()
	suite.mockRepo.On("GetRadarById", suite.ctx, radardb.GetRadarByIdParams{ID: radarID, UserID: suite.userID}).
		Return(nil, sql.ErrNoRows)

	_, err := suite.service.GetRadar(suite.ctx, suite.userIDStr(), radarID.String())

	require.Equal(suite.T(), appErrors.ErrRadarNotFound, err)
}

func (suite *RadarServiceTestSuite) TestGetRadarRejectsMalformedIDWithoutQuery() {
	_, err := suite.service.GetRadar(suite.ctx, suite.userIDStr(), "not-a-uuid")

	require.Equal(suite.T(), appErrors.ErrRadarNotFound, err)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetRadarById", mock.Anything, mock.Anything)
}

func (suite *RadarServiceTestSuite) TestUpdateRadarMapsUniqueViolation() {
	radarID := uuid.New()
	suite.mockRepo.On("UpdateRadar", suite.ctx, mock.AnythingOfType("gen.UpdateRadarParams")).
		Return(nil, &pq.Error{Code: "23505"})

	_, err := suite.service.UpdateRadar(suite.ctx, suite.userIDStr(), radarID.String(), UpdateRadarRequest{Name: "taken"})

	require.Equal(suite.T(), appErrors.ErrDuplicateRadar, err)
}

func (suite *RadarServiceTestSuite) TestDeleteRadarReportsNotFoundWhenNothingDeleted() {
	radarID := uuid.New()
	suite.mockRepo.On("DeleteRadar", suite.ctx, radardb.DeleteRadarParams{ID: radarID, UserID: suite.userID}).
		Return(&mockSqlResult{rowsAffected: 0}, nil)

	err := suite.service.DeleteRadar(suite.ctx, suite.userIDStr(), radarID.String())

	require.Equal(suite.T(), appErrors.ErrRadarNotFound, err)
}

func (suite *RadarServiceTestSuite) TestAddMembershipEnforcesRepoLimit() {
	radar := suite.newRadar("full radar")
	suite.mockRepo.On("GetRadarById", suite.ctx, radardb.GetRadarByIdParams{ID: radar.ID, UserID: suite.userID}).
		Return(radar, nil)
	suite.mockRepo.On("CountRadarRepos", suite.ctx, radar.ID).Return(int64(5), nil)

	err := suite.service.AddMembership(suite.ctx, suite.userIDStr(), radar.ID.String(), 101)

	require.Equal(suite.T(), appErrors.ErrRadarRepoLimitExceeded, err)
	suite.mockRepo.AssertNotCalled(suite.T(), "AddRadarRepo", mock.Anything, mock.Anything)
}

func (suite *RadarServiceTestSuite) TestAddMembershipMapsDuplicate() {
	radar := suite.newRadar("radar")
	suite.mockRepo.On("GetRadarById", suite.ctx, radardb.GetRadarByIdParams{ID: radar.ID, UserID: suite.userID}).
		Return(radar, nil)
	suite.mockRepo.On("CountRadarRepos", suite.ctx, radar.ID).Return(int64(1), nil)
	suite.mockRepo.On("AddRadarRepo", suite.ctx, radardb.AddRadarRepoParams{RadarID: radar.ID, RepoGithubID: 101}).
		Return(&pq.Error{Code: "23505"})

	err := suite.service.AddMembership(suite.ctx, suite.userIDStr(), radar.ID.String(), 101)

	require.Equal(suite.T(), appErrors.ErrDuplicateRadarRepo, err)
}

func (suite *RadarServiceTestSuite) TestRemoveMembershipReportsMissingRow() {
	radar := suite.newRadar("radar")
	suite.mockRepo.On("GetRadarById", suite.ctx, radardb.GetRadarByIdParams{ID: radar.ID, UserID: suite.userID}).
		Return(radar, nil)
	suite.mockRepo.On("RemoveRadarRepo", suite.ctx, radardb.RemoveRadarRepoParams{RadarID: radar.ID, RepoGithubID: 101}).
		Return(&mockSqlResult{rowsAffected: 0}, nil)

	err := suite.service.RemoveMembership(suite.ctx, suite.userIDStr(), radar.ID.String(), 101)

	require.Equal(suite.T(), appErrors.ErrRadarRepoNotFound, err)
}

func (suite *RadarServiceTestSuite) TestListRadarsContainingMapsIDsToStrings() {
	idA, idB := uuid.New(), uuid.New()
	suite.mockRepo.On("ListRadarsContainingRepo", suite.ctx, radardb.ListRadarsContainingRepoParams{RepoGithubID: 101, UserID: suite.userID}).
		Return([]uuid.UUID{idA, idB}, nil)

	ids, err := suite.service.ListRadarsContaining(suite.ctx, suite.userIDStr(), 101)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{idA.String(), idB.String()}, ids)
}

// snapshot returns a repo card the dashboard would send when opening a picker.
func testSnapshot(githubID int64) RepoSnapshot {
	return RepoSnapshot{
		GithubID:        githubID,
		FullName:        "acme/widgets",
		HtmlUrl:         "https://github.com/acme/widgets",
		StargazersCount: 42,
		Language:        "Go",
	}
}

func (suite *RadarServiceTestSuite) TestOpenPickerSeedsBaselineFromStore() {
	radar := suite.newRadar("platform")
	suite.mockRepo.On("UpsertRepo", suite.ctx, mock.AnythingOfType("gen.UpsertRepoParams")).
		Return(radardb.Repo{GithubID: 101}, nil)
	suite.mockRepo.On("ListRadarsContainingRepo", suite.ctx, radardb.ListRadarsContainingRepoParams{RepoGithubID: 101, UserID: suite.userID}).
		Return([]uuid.UUID{radar.ID}, nil)
	suite.mockRepo.On("ListRadarsByUser", suite.ctx, suite.userID).
		Return([]radardb.ListRadarsByUserRow{{ID: radar.ID, Name: radar.Name, MemberCount: 1}}, nil)

	resp, err := suite.service.OpenPicker(suite.ctx, suite.userIDStr(), OpenPickerRequest{Repo: testSnapshot(101)})

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), resp)
	assert.NotEmpty(suite.T(), resp.SessionID)
	assert.Equal(suite.T(), []string{radar.ID.String()}, resp.State.Checked)
	assert.False(suite.T(), resp.State.HasUnsavedChanges)
	require.Len(suite.T(), resp.Radars, 1)
	assert.Equal(suite.T(), radar.Name, resp.Radars[0].Name)
}

func (suite *RadarServiceTestSuite) TestPickerLifecycleToggleSaveAndDiscard() {
	radar := suite.newRadar("platform")
	suite.mockRepo.On("UpsertRepo", suite.ctx, mock.AnythingOfType("gen.UpsertRepoParams")).
		Return(radardb.Repo{GithubID: 101}, nil)
	suite.mockRepo.On("ListRadarsContainingRepo", suite.ctx, radardb.ListRadarsContainingRepoParams{RepoGithubID: 101, UserID: suite.userID}).
		Return([]uuid.UUID{}, nil)
	suite.mockRepo.On("ListRadarsByUser", suite.ctx, suite.userID).
		Return([]radardb.ListRadarsByUserRow{{ID: radar.ID, Name: radar.Name}}, nil)

	opened, err := suite.service.OpenPicker(suite.ctx, suite.userIDStr(), OpenPickerRequest{Repo: testSnapshot(101)})
	require.NoError(suite.T(), err)

	toggled, err := suite.service.TogglePicker(suite.ctx, suite.userIDStr(), opened.SessionID, radar.ID.String())
	require.NoError(suite.T(), err)
	assert.True(suite.T(), toggled.Checked)
	assert.True(suite.T(), toggled.HasUnsavedChanges)

	// The save fans out through the membership path, ownership check included
	suite.mockRepo.On("GetRadarById", mock.Anything, radardb.GetRadarByIdParams{ID: radar.ID, UserID: suite.userID}).
		Return(radar, nil)
	suite.mockRepo.On("CountRadarRepos", mock.Anything, radar.ID).Return(int64(0), nil)
	suite.mockRepo.On("AddRadarRepo", mock.Anything, radardb.AddRadarRepoParams{RadarID: radar.ID, RepoGithubID: 101}).
		Return(nil)

	saved, err := suite.service.SavePicker(suite.ctx, suite.userIDStr(), opened.SessionID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), saved.Outcomes, 1)
	assert.True(suite.T(), saved.Outcomes[0].Success)
	assert.False(suite.T(), saved.State.HasUnsavedChanges)
	assert.Equal(suite.T(), []string{radar.ID.String()}, saved.State.Checked)

	err = suite.service.DiscardPicker(suite.ctx, suite.userIDStr(), opened.SessionID)
	require.NoError(suite.T(), err)

	_, err = suite.service.GetPicker(suite.ctx, suite.userIDStr(), opened.SessionID)
	require.Equal(suite.T(), appErrors.ErrPickerSessionNotFound, err)
}

func (suite *RadarServiceTestSuite) TestSavePickerRetainsFailedEntries() {
	owned := suite.newRadar("mine")
	ghost := uuid.New()

	suite.mockRepo.On("UpsertRepo", suite.ctx, mock.AnythingOfType("gen.UpsertRepoParams")).
		Return(radardb.Repo{GithubID: 101}, nil)
	suite.mockRepo.On("ListRadarsContainingRepo", suite.ctx, radardb.ListRadarsContainingRepoParams{RepoGithubID: 101, UserID: suite.userID}).
		Return([]uuid.UUID{}, nil)
	suite.mockRepo.On("ListRadarsByUser", suite.ctx, suite.userID).
		Return([]radardb.ListRadarsByUserRow{{ID: owned.ID, Name: owned.Name}}, nil)

	opened, err := suite.service.OpenPicker(suite.ctx, suite.userIDStr(), OpenPickerRequest{Repo: testSnapshot(101)})
	require.NoError(suite.T(), err)

	_, err = suite.service.TogglePicker(suite.ctx, suite.userIDStr(), opened.SessionID, owned.ID.String())
	require.NoError(suite.T(), err)
	_, err = suite.service.TogglePicker(suite.ctx, suite.userIDStr(), opened.SessionID, ghost.String())
	require.NoError(suite.T(), err)

	suite.mockRepo.On("GetRadarById", mock.Anything, radardb.GetRadarByIdParams{ID: owned.ID, UserID: suite.userID}).
		Return(owned, nil)
	suite.mockRepo.On("CountRadarRepos", mock.Anything, owned.ID).Return(int64(0), nil)
	suite.mockRepo.On("AddRadarRepo", mock.Anything, radardb.AddRadarRepoParams{RadarID: owned.ID, RepoGithubID: 101}).
		Return(nil)
	// The deleted radar fails its ownership check mid-save
	suite.mockRepo.On("GetRadarById", mock.Anything, radardb.GetRadarByIdParams{ID: ghost, UserID: suite.userID}).
		Return(nil, sql.ErrNoRows)

	saved, err := suite.service.SavePicker(suite.ctx, suite.userIDStr(), opened.SessionID)

	require.Equal(suite.T(), appErrors.ErrRadarNotFound, err)
	require.NotNil(suite.T(), saved, "partial failure still reports outcomes")
	require.Len(suite.T(), saved.Outcomes, 2)
	assert.Equal(suite.T(), []string{ghost.String()}, saved.State.PendingAdd, "only the failed entry stays pending")
	assert.Contains(suite.T(), saved.State.Checked, owned.ID.String(), "the applied entry folded into the baseline")
	assert.Equal(suite.T(), appErrors.ErrRadarNotFound.Message, saved.State.SaveError)
}

func (suite *RadarServiceTestSuite) TestGetPickerUnknownSession() {
	_, err := suite.service.GetPicker(suite.ctx, suite.userIDStr(), uuid.NewString())

	require.Equal(suite.T(), appErrors.ErrPickerSessionNotFound, err)
}

func (suite *RadarServiceTestSuite) TestPickerSessionNotAddressableByOtherUsers() {
	radar := suite.newRadar("platform")
	suite.mockRepo.On("UpsertRepo", suite.ctx, mock.AnythingOfType("gen.UpsertRepoParams")).
		Return(radardb.Repo{GithubID: 101}, nil)
	suite.mockRepo.On("ListRadarsContainingRepo", suite.ctx, mock.AnythingOfType("gen.ListRadarsContainingRepoParams")).
		Return([]uuid.UUID{}, nil)
	suite.mockRepo.On("ListRadarsByUser", suite.ctx, suite.userID).
		Return([]radardb.ListRadarsByUserRow{{ID: radar.ID, Name: radar.Name}}, nil)

	opened, err := suite.service.OpenPicker(suite.ctx, suite.userIDStr(), OpenPickerRequest{Repo: testSnapshot(101)})
	require.NoError(suite.T(), err)

	_, err = suite.service.GetPicker(suite.ctx, uuid.NewString(), opened.SessionID)
	require.Equal(suite.T(), appErrors.ErrPickerSessionNotFound, err)
}

func (suite *RadarServiceTestSuite) TestPickerSessionExpiresAfterTTL() {
	suite.service = NewRadarService(
		suite.logger,
		suite.mockRepo,
		cache.NewInMemoryCache(),
		Limits{MaxRadarsPerUser: 3, MaxReposPerRadar: 5},
		time.Millisecond,
	)

	suite.mockRepo.On("UpsertRepo", suite.ctx, mock.AnythingOfType("gen.UpsertRepoParams")).
		Return(radardb.Repo{GithubID: 101}, nil)
	suite.mockRepo.On("ListRadarsContainingRepo", suite.ctx, mock.AnythingOfType("gen.ListRadarsContainingRepoParams")).
		Return([]uuid.UUID{}, nil)
	suite.mockRepo.On("ListRadarsByUser", suite.ctx, suite.userID).
		Return([]radardb.ListRadarsByUserRow{}, nil)

	opened, err := suite.service.OpenPicker(suite.ctx, suite.userIDStr(), OpenPickerRequest{Repo: testSnapshot(101)})
	require.NoError(suite.T(), err)

	time.Sleep(20 * time.Millisecond)

	_, err = suite.service.GetPicker(suite.ctx, suite.userIDStr(), opened.SessionID)
	require.Equal(suite.T(), appErrors.ErrPickerSessionNotFound, err)
}

// TestRadarServiceTestSuite runs the test suite
func TestRadarServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RadarServiceTestSuite))
}

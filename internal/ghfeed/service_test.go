package ghfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reporadar/reporadar-backend/internal/cache"
	appErrors "github.com/reporadar/reporadar-backend/internal/errors"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockTokenSource is a mock implementation of auth.TokenSource
type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) GithubToken(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

const starredPage = `[
  {
    "starred_at": "2026-03-01T09:30:00Z",
    "repo": {
      "id": 1296269,
      "full_name": "octocat/hello-world",
      "description": "My first repository on GitHub!",
      "html_url": "https://github.com/octocat/hello-world",
      "stargazers_count": 80,
      "language": "Go"
    }
  },
  {
    "starred_at": "2026-02-14T18:00:00Z",
    "repo": {
      "id": 9001,
      "full_name": "octocat/spoon-knife",
      "html_url": "https://github.com/octocat/spoon-knife",
      "stargazers_count": 12
    }
  }
]`

const releasesPage = `[
  {
    "id": 42,
    "tag_name": "v1.2.0",
    "name": "v1.2.0",
    "html_url": "https://github.com/octocat/hello-world/releases/v1.2.0",
    "draft": false,
    "prerelease": false,
    "published_at": "2026-04-01T12:00:00Z"
  },
  {
    "id": 43,
    "tag_name": "v1.3.0-rc1",
    "name": "v1.3.0 release candidate",
    "html_url": "https://github.com/octocat/hello-world/releases/v1.3.0-rc1",
    "draft": false,
    "prerelease": true,
    "published_at": "2026-04-10T12:00:00Z"
  }
]`

// GithubFeedServiceTestSuite runs the feed service against a stub GitHub API.
type GithubFeedServiceTestSuite struct {
	suite.Suite
	service    *GithubFeedService
	mockTokens *MockTokenSource
	server     *httptest.Server
	logger     *logrus.Logger
	ctx        context.Context

	starredHits    atomic.Int32
	releasesHits   atomic.Int32
	starredStatus  atomic.Int32
	releasesStatus atomic.Int32
	starredQuery   url.Values
}

func (suite *GithubFeedServiceTestSuite) SetupSuite() {
	suite.logger = logrus.New()
	suite.logger.SetOutput(io.Discard)
	suite.ctx = context.Background()
}

func (suite *GithubFeedServiceTestSuite) SetupTest() {
	suite.mockTokens = new(MockTokenSource)
	suite.starredHits.Store(0)
	suite.releasesHits.Store(0)
	suite.starredStatus.Store(0)
	suite.releasesStatus.Store(0)
	suite.starredQuery = nil

	mux := http.NewServeMux()
	mux.HandleFunc("/user/starred", func(w http.ResponseWriter, r *http.Request) {
		suite.starredHits.Add(1)
		suite.starredQuery = r.URL.Query()
		if status := suite.starredStatus.Load(); status != 0 {
			w.WriteHeader(int(status))
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, starredPage)
	})
	mux.HandleFunc("/repos/octocat/hello-world/releases", func(w http.ResponseWriter, r *http.Request) {
		suite.releasesHits.Add(1)
		if status := suite.releasesStatus.Load(); status != 0 {
			w.WriteHeader(int(status))
			fmt.Fprint(w, `{"message": "Not Found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, releasesPage)
	})
	suite.server = httptest.NewServer(mux)

	suite.service = NewGithubFeedService(suite.logger, suite.mockTokens, cache.NewInMemoryCache(), time.Minute)
	baseURL, err := url.Parse(suite.server.URL + "/")
	suite.Require().NoError(err)
	suite.service.gh.BaseURL = baseURL
}

func (suite *GithubFeedServiceTestSuite) TearDownTest() {
	suite.server.Close()
	suite.mockTokens.ExpectedCalls = nil
}

func (suite *GithubFeedServiceTestSuite) TestListStarredMapsGithubFields() {
	suite.mockTokens.On("GithubToken", mock.Anything, "user-1").Return("gho_token", nil)

	repos, err := suite.service.ListStarred(suite.ctx, "user-1", 2, 50)

	suite.Require().NoError(err)
	suite.Require().Len(repos, 2)
	suite.Equal(int64(1296269), repos[0].GithubID)
	suite.Equal("octocat/hello-world", repos[0].FullName)
	suite.Equal("My first repository on GitHub!", repos[0].Description)
	suite.Equal("https://github.com/octocat/hello-world", repos[0].HtmlUrl)
	suite.Equal(80, repos[0].StargazersCount)
	suite.Equal("Go", repos[0].Language)
	suite.WithinDuration(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), repos[0].StarredAt, 0)
	suite.Equal("", repos[1].Language)

	suite.Equal("2", suite.starredQuery.Get("page"))
	suite.Equal("50", suite.starredQuery.Get("per_page"))
	suite.Equal("created", suite.starredQuery.Get("sort"))
	suite.mockTokens.AssertExpectations(suite.T())
}

func (suite *GithubFeedServiceTestSuite) TestListStarredServesRepeatsFromCache() {
	suite.mockTokens.On("GithubToken", mock.Anything, "user-1").Return("gho_token", nil)

	_, err := suite.service.ListStarred(suite.ctx, "user-1", 1, 30)
	suite.Require().NoError(err)
	repos, err := suite.service.ListStarred(suite.ctx, "user-1", 1, 30)
	suite.Require().NoError(err)

	suite.Len(repos, 2)
	suite.Equal(int32(1), suite.starredHits.Load())

	// a different page is its own cache entry
	_, err = suite.service.ListStarred(suite.ctx, "user-1", 2, 30)
	suite.Require().NoError(err)
	suite.Equal(int32(2), suite.starredHits.Load())
}

func (suite *GithubFeedServiceTestSuite) TestInvalidateUserForcesRefetch() {
	suite.mockTokens.On("GithubToken", mock.Anything, "user-1").Return("gho_token", nil)

	_, err := suite.service.ListStarred(suite.ctx, "user-1", 1, 30)
	suite.Require().NoError(err)
	suite.Equal(int32(1), suite.starredHits.Load())

	suite.service.InvalidateUser(suite.ctx, "user-1")

	_, err = suite.service.ListStarred(suite.ctx, "user-1", 1, 30)
	suite.Require().NoError(err)
	suite.Equal(int32(2), suite.starredHits.Load())
}

func (suite *GithubFeedServiceTestSuite) TestListStarredMapsRevokedToken() {
	suite.mockTokens.On("GithubToken", mock.Anything, "user-1").Return("gho_token", nil)
	suite.starredStatus.Store(http.StatusUnauthorized)

	repos, err := suite.service.ListStarred(suite.ctx, "user-1", 1, 30)

	suite.Nil(repos)
	suite.Equal(appErrors.ErrGithubTokenMissing, err)
}

func (suite *GithubFeedServiceTestSuite) TestListStarredSkipsGithubWhenTokenLookupFails() {
	suite.mockTokens.On("GithubToken", mock.Anything, "user-1").Return("", appErrors.ErrGithubTokenMissing)

	repos, err := suite.service.ListStarred(suite.ctx, "user-1", 1, 30)

	suite.Nil(repos)
	suite.Equal(appErrors.ErrGithubTokenMissing, err)
	suite.Equal(int32(0), suite.starredHits.Load())
}

func (suite *GithubFeedServiceTestSuite) TestListReleasesMapsGithubFields() {
	suite.mockTokens.On("GithubToken", mock.Anything, "user-1").Return("gho_token", nil)

	releases, err := suite.service.ListReleases(suite.ctx, "user-1", "octocat", "hello-world", 1, 30)

	suite.Require().NoError(err)
	suite.Require().Len(releases, 2)
	suite.Equal(int64(42), releases[0].ID)
	suite.Equal("v1.2.0", releases[0].TagName)
	suite.Equal("https://github.com/octocat/hello-world/releases/v1.2.0", releases[0].HtmlUrl)
	suite.False(releases[0].Prerelease)
	suite.True(releases[1].Prerelease)
	suite.WithinDuration(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC), releases[0].PublishedAt, 0)

	_, err = suite.service.ListReleases(suite.ctx, "user-1", "octocat", "hello-world", 1, 30)
	suite.Require().NoError(err)
	suite.Equal(int32(1), suite.releasesHits.Load())
}

func (suite *GithubFeedServiceTestSuite) TestListReleasesMapsUpstreamFailure() {
	suite.mockTokens.On("GithubToken", mock.Anything, "user-1").Return("gho_token", nil)
	suite.releasesStatus.Store(http.StatusNotFound)

	releases, err := suite.service.ListReleases(suite.ctx, "user-1", "octocat", "hello-world", 1, 30)

	suite.Nil(releases)
	suite.Equal(appErrors.ErrGithubUpstream, err)
}

func TestGithubFeedServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GithubFeedServiceTestSuite))
}

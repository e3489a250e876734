package ghfeed

import (
	"context"
	"time"

	"github.com/reporadar/reporadar-backend/internal/auth"
	"github.com/reporadar/reporadar-backend/internal/cache"
	apiErrors "github.com/reporadar/reporadar-backend/internal/errors"

	"github.com/google/go-github/v68/github"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// NewGithubFeedService creates a new GithubFeedService. Outbound GitHub
// calls ride a retrying HTTP client; successful reads are cached for ttl.
func NewGithubFeedService(logger *logrus.Logger, tokens auth.TokenSource, store cache.Cache, ttl time.Duration) *GithubFeedService {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &GithubFeedService{
		logger: logger,
		tokens: tokens,
		store:  store,
		ttl:    ttl,
		gh:     github.NewClient(rc.StandardClient()),
	}
}

// GithubFeedService proxies the read-only GitHub views the dashboard needs,
// calling GitHub with the user's stored OAuth token.
type GithubFeedService struct {
	logger *logrus.Logger
	tokens auth.TokenSource
	store  cache.Cache
	ttl    time.Duration
	gh     *github.Client
}

// ListStarred returns one page of the user's starred repositories, newest
// star first. Pagination is passed through to GitHub untouched.
func (s *GithubFeedService) ListStarred(ctx context.Context, userID string, page, perPage int) ([]StarredRepo, error) {
	token, err := s.tokens.GithubToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey(cache.PrefixStarred, userID, page, perPage)
	return cache.Fetch(ctx, s.store, key, s.ttl, func(ctx context.Context) ([]StarredRepo, error) {
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"page":    page,
			"perPage": perPage,
		}).Info("Fetching starred repos from GitHub")

		opts := &github.ActivityListStarredOptions{
			Sort: "created",
			ListOptions: github.ListOptions{
				Page:    page,
				PerPage: perPage,
			},
		}
		starred, _, err := s.gh.WithAuthToken(token).Activity.ListStarred(ctx, "", opts)
		if err != nil {
			return nil, s.mapUpstreamError(userID, "starred", err)
		}

		return lo.Map(starred, func(sr *github.StarredRepository, _ int) StarredRepo {
			repo := sr.GetRepository()
			return StarredRepo{
				GithubID:        repo.GetID(),
				FullName:        repo.GetFullName(),
				Description:     repo.GetDescription(),
				HtmlUrl:         repo.GetHTMLURL(),
				StargazersCount: repo.GetStargazersCount(),
				Language:        repo.GetLanguage(),
				StarredAt:       sr.GetStarredAt().Time,
			}
		}), nil
	})
}

// ListReleases returns one page of a repository's releases.
func (s *GithubFeedService) ListReleases(ctx context.Context, userID, owner, repo string, page, perPage int) ([]Release, error) {
	token, err := s.tokens.GithubToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey(cache.PrefixReleases, userID, owner, repo, page, perPage)
	return cache.Fetch(ctx, s.store, key, s.ttl, func(ctx context.Context) ([]Release, error) {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"owner":  owner,
			"repo":   repo,
			"page":   page,
		}).Info("Fetching releases from GitHub")

		opts := &github.ListOptions{
			Page:    page,
			PerPage: perPage,
		}
		releases, _, err := s.gh.WithAuthToken(token).Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, s.mapUpstreamError(userID, "releases", err)
		}

		return lo.Map(releases, func(r *github.RepositoryRelease, _ int) Release {
			return Release{
				ID:          r.GetID(),
				TagName:     r.GetTagName(),
				Name:        r.GetName(),
				HtmlUrl:     r.GetHTMLURL(),
				Draft:       r.GetDraft(),
				Prerelease:  r.GetPrerelease(),
				PublishedAt: r.GetPublishedAt().Time,
			}
		}), nil
	})
}

// InvalidateUser drops every cached GitHub read for the user, forcing the
// next request on each view to refetch.
func (s *GithubFeedService) InvalidateUser(ctx context.Context, userID string) {
	s.store.DeleteByPrefix(ctx, cache.GenerateKey(cache.PrefixStarred, userID))
	s.store.DeleteByPrefix(ctx, cache.GenerateKey(cache.PrefixReleases, userID))

	s.logger.WithFields(logrus.Fields{
		"userID": userID,
	}).Info("Invalidated cached GitHub reads for user")
}

// mapUpstreamError folds go-github errors into the API error taxonomy.
// A 401 means the stored token was revoked; everything else is GitHub not
// answering usefully.
func (s *GithubFeedService) mapUpstreamError(userID, view string, err error) error {
	if errResp, ok := err.(*github.ErrorResponse); ok && errResp.Response != nil && errResp.Response.StatusCode == 401 {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"view":   view,
		}).Warn("GitHub rejected the stored token")
		return apiErrors.ErrGithubTokenMissing
	}

	s.logger.WithFields(logrus.Fields{
		"userID": userID,
		"view":   view,
		"error":  err.Error(),
	}).Error("GitHub request failed")
	return apiErrors.ErrGithubUpstream
}

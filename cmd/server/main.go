package main

import (
	"time"

	"github.com/reporadar/reporadar-backend/internal/auth"
	userdb "github.com/reporadar/reporadar-backend/internal/auth/gen"
	"github.com/reporadar/reporadar-backend/internal/auth/jwt"
	"github.com/reporadar/reporadar-backend/internal/auth/provider"
	"github.com/reporadar/reporadar-backend/internal/cache"
	"github.com/reporadar/reporadar-backend/internal/config"
	"github.com/reporadar/reporadar-backend/internal/db"
	"github.com/reporadar/reporadar-backend/internal/ghfeed"
	"github.com/reporadar/reporadar-backend/internal/radar"
	radardb "github.com/reporadar/reporadar-backend/internal/radar/gen"
	"github.com/reporadar/reporadar-backend/internal/server"
	"github.com/reporadar/reporadar-backend/internal/tour"
	tourdb "github.com/reporadar/reporadar-backend/internal/tour/gen"
	"github.com/reporadar/reporadar-backend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := utils.New(cfg)

	conn := db.InitDB(logger, cfg)

	encryptor, err := utils.NewEncryptor(cfg.TokenCipherKey)
	if err != nil {
		logger.Fatal("invalid TOKEN_CIPHER_KEY: ", err)
	}

	// JWT manager setup
	jwter := jwt.NewManager(cfg.JWTSecret,
		time.Duration(cfg.AccessTokenDuration)*time.Minute,
		time.Duration(cfg.RefreshTokenDuration)*time.Minute)

	// Initialize auth service and handler
	githubProvider := provider.NewGitHubProvider(
		cfg.GitHubClientID,
		cfg.GitHubClientSecret,
		cfg.GitHubRedirectURL,
	)
	authService := auth.NewAuthService(githubProvider, userdb.New(conn), jwter, encryptor, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	// Radar service hosts picker sessions in an in-memory TTL cache.
	radarService := radar.NewRadarService(logger, radardb.New(conn), cache.NewInMemoryCache(),
		radar.Limits{
			MaxRadarsPerUser: cfg.MaxRadarsPerUser,
			MaxReposPerRadar: cfg.MaxReposPerRadar,
		},
		time.Duration(cfg.PickerSessionTTL)*time.Minute)
	radarHandler := radar.NewRadarHandler(logger, radarService)

	// GitHub read views get their own cache so invalidation stays scoped.
	feedService := ghfeed.NewGithubFeedService(logger, authService, cache.NewInMemoryCache(),
		time.Duration(cfg.GitHubCacheTTL)*time.Second)
	feedHandler := ghfeed.NewGithubFeedHandler(logger, feedService)

	tourService := tour.NewTourService(logger, tourdb.New(conn))
	tourHandler := tour.NewTourHandler(logger, tourService)

	s := server.New(cfg, logger, conn)

	s.SetupRoutes(authHandler, radarHandler, feedHandler, tourHandler, jwter)

	if err := s.Start(); err != nil {
		logger.Fatal("server failed to start: ", err)
	}
}

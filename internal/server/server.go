package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/totalrecall/catalog-backend/internal/config"
	"github.com/totalrecall/catalog-backend/internal/handler"
	"github.com/totalrecall/catalog-backend/internal/ledger"
	"github.com/totalrecall/catalog-backend/internal/lookup"
	"github.com/totalrecall/catalog-backend/internal/media"
	appmw "github.com/totalrecall/catalog-backend/internal/middleware"
	"github.com/totalrecall/catalog-backend/internal/repository"
	"github.com/totalrecall/catalog-backend/internal/rewards"
	"github.com/totalrecall/catalog-backend/internal/service"
	"github.com/totalrecall/catalog-backend/internal/storage"
	"gorm.io/gorm"
)

// Points awarded by the catalog hooks. Both sides of a recommendation get
// the same award so recommending stays symmetric.
const (
	cardCreatePoints     = 1
	recommendationPoints = 15
)

type Server struct {
	e           *echo.Echo
	cardRepo    repository.CardRepository
	recRepo     repository.RecommendationRepository
	notifRepo   repository.NotificationRepository
	userRepo    repository.UserRepository
	leaderboard *rewards.LeaderboardObserver
	uploader    *media.Uploader
}

// New assembles the full server. db may be nil at startup; repositories
// answer ErrDBNotReady until SetDB is called.
func New(cfg *config.Config, db *gorm.DB) (*Server, error) {
	logger := slog.Default()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", appmw.ActorHeader},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))
	e.Use(appmw.Actor)

	medium, err := storage.NewFileMedium(cfg.LedgerPath, logger)
	if err != nil {
		return nil, err
	}
	store := ledger.NewPointsStore(medium, logger)
	bus := rewards.NewChangeBus(logger)

	cardRepo := repository.NewCardRepository(db)
	recRepo := repository.NewRecommendationRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	notifSvc := service.NewNotificationService(notifRepo)
	rewardSvc := rewards.NewService(store, bus, notifSvc, logger, rewards.ServiceConfig{})

	leaderboard := rewards.NewLeaderboardObserver(store, bus, logger, rewards.ReconcilerConfig{
		WatchPath: medium.Path(),
	})
	leaderboard.Start()

	cardSvc := service.NewCardService(cardRepo, func(ownerUID, kind string) {
		rewardSvc.AddPoints(ownerUID, cardCreatePoints, "creating a new "+kind)
		bus.Publish(rewards.Event{Kind: rewards.KindCardAdded, UserID: ownerUID, Reason: kind})
	})
	recSvc := service.NewRecommendationService(recRepo, cardRepo, notifSvc, func(senderUID, recipientUID, title string) {
		rewardSvc.AddPoints(senderUID, recommendationPoints, "recommending "+title)
		rewardSvc.AddPoints(recipientUID, recommendationPoints, "receiving a recommendation for "+title)
		bus.Publish(rewards.Event{Kind: rewards.KindRecommendationSent, UserID: recipientUID, Reason: title})
	})
	userSvc := service.NewUserService(userRepo)

	var uploader *media.Uploader
	if cfg.StorageBucket != "" {
		uploader, err = media.NewUploader(context.Background(), cfg.StorageBucket, cfg.GoogleCredentials)
		if err != nil {
			logger.Warn("media uploader unavailable, uploads disabled", "error", err)
			uploader = nil
		}
	}

	var provider lookup.Provider = lookup.NewStaticProvider()
	if cfg.GeminiAPIKey != "" {
		provider = lookup.NewGeminiProvider(provider)
	}

	cardHandler := handler.NewCardHandler(cardSvc, uploader)
	recHandler := handler.NewRecommendationHandler(recSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)
	rewardsHandler := handler.NewRewardsHandler(rewardSvc, leaderboard, userSvc)
	lookupHandler := handler.NewLookupHandler(provider)
	userHandler := handler.NewUserHandler(userSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")
	api.POST("/cards", cardHandler.Create)
	api.GET("/cards", cardHandler.List)
	api.GET("/cards/:id", cardHandler.Get)
	api.PUT("/cards/:id", cardHandler.Update)
	api.DELETE("/cards/:id", cardHandler.Delete)
	api.POST("/cards/:id/image", cardHandler.UploadImage)
	api.GET("/me/cards", cardHandler.ListMine)

	api.POST("/recommendations", recHandler.Send)
	api.GET("/me/recommendations", recHandler.ListReceived)
	api.GET("/me/recommendations/sent", recHandler.ListSent)
	api.POST("/recommendations/:id/read", recHandler.MarkRead)

	api.GET("/me/rewards", rewardsHandler.GetMine)
	api.GET("/rewards/leaderboard", rewardsHandler.Leaderboard)

	api.GET("/me/notifications", notifHandler.List)
	api.POST("/me/notifications/read", notifHandler.MarkAllRead)

	api.POST("/lookup", lookupHandler.Suggest)

	api.GET("/users", userHandler.List)
	api.POST("/users/register", userHandler.Register)

	return &Server{
		e:           e,
		cardRepo:    cardRepo,
		recRepo:     recRepo,
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		leaderboard: leaderboard,
		uploader:    uploader,
	}, nil
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB injects a late-arriving connection into every repository.
func (s *Server) SetDB(db *gorm.DB) {
	s.cardRepo.SetDB(db)
	s.recRepo.SetDB(db)
	s.notifRepo.SetDB(db)
	s.userRepo.SetDB(db)
}

// Shutdown stops the HTTP listener, the leaderboard reconciler and the
// media client.
func (s *Server) Shutdown(ctx context.Context) error {
	s.leaderboard.Stop()
	if s.uploader != nil {
		_ = s.uploader.Close()
	}
	return s.e.Shutdown(ctx)
}

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/asset"
	"github.com/uksimracing/website/internal/auth"
	"github.com/uksimracing/website/internal/config"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/discord"
	"github.com/uksimracing/website/internal/httphelper"
	"github.com/uksimracing/website/internal/leagues"
	"github.com/uksimracing/website/internal/news"
	"github.com/uksimracing/website/internal/partners"
	"github.com/uksimracing/website/internal/scheduler"
	"github.com/uksimracing/website/internal/streams"
	"github.com/uksimracing/website/internal/thirdparty"
	"github.com/uksimracing/website/internal/videos"
	"github.com/uksimracing/website/internal/webhook"
	"github.com/uksimracing/website/pkg/log"
	"golang.org/x/sync/errgroup"
)

type App struct {
	conf        config.Config
	database    database.Database
	assets      asset.Store
	auth        *auth.Authentication
	users       auth.Users
	news        news.News
	videos      videos.Videos
	partners    partners.Partners
	leagues     leagues.Leagues
	permissions discord.Permissions
	stats       *webhook.Stats
	monitor     *streams.Monitor
	bot         *discord.Bot
	scheduler   *scheduler.Scheduler
	sentry      *sentry.Client

	logCloser func()
}

func NewApp() (*App, error) {
	conf, errConfig := config.Read()
	if errConfig != nil {
		slog.Error("Failed to read config", log.ErrAttr(errConfig))

		return nil, errConfig
	}

	return &App{conf: conf}, nil
}

func (a *App) Init(ctx context.Context) error {
	conf := a.conf

	// Normally set by build time flags, but can be overwritten by the env var.
	if conf.Sentry.DSN == "" {
		if value, found := os.LookupEnv("SENTRY_DSN"); found && value != "" {
			conf.Sentry.DSN = value
		}
	}

	a.setupSentry()

	a.logCloser = log.MustCreateLogger(ctx, conf.Log.File, conf.Log.Level, conf.Sentry.DSN != "", BuildVersion)

	slog.Info("Starting uksimracing website...",
		slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit),
		slog.String("date", BuildDate))

	dbConn := database.New(conf.Database.DSN, conf.Database.AutoMigrate, conf.Database.LogQueries)
	if errConnect := dbConn.Connect(ctx); errConnect != nil {
		slog.Error("Cannot initialize database", log.ErrAttr(errConnect))

		return errConnect
	}

	a.database = dbConn

	assets, errAssets := asset.NewStore(conf.HTTP.UploadPath)
	if errAssets != nil {
		slog.Error("Failed to init upload store", log.ErrAttr(errAssets))

		return errAssets
	}

	a.assets = assets

	youtube := thirdparty.NewYouTubeClient(conf.YouTube.APIKey, conf.YouTube.ChannelID)
	twitch := thirdparty.NewTwitchClient(conf.Twitch.ClientID, conf.Twitch.ClientSecret)

	a.auth = auth.NewAuthentication(conf.Sentry.DSN != "")
	a.users = auth.NewUsers(auth.NewRepository(a.database), conf.Owner)
	a.news = news.NewNews(news.NewRepository(a.database),
		news.NewImageResolver(assets, conf.Webhook.RotationImages, conf.Webhook.DownloadTimeout))
	a.videos = videos.NewVideos(videos.NewRepository(a.database), youtube)
	a.partners = partners.NewPartners(partners.NewRepository(a.database))
	a.leagues = leagues.NewLeagues(leagues.NewRepository(a.database))
	a.permissions = discord.NewPermissions(discord.NewPermissionsRepository(a.database))
	a.stats = webhook.NewStats()
	a.monitor = streams.NewMonitor(youtube, twitch, conf.Twitch)

	if errMaster := a.users.EnsureMaster(ctx); errMaster != nil {
		slog.Error("Failed to bootstrap master admin", log.ErrAttr(errMaster))

		return errMaster
	}

	if conf.Discord.Enabled {
		bot, errBot := discord.NewBot(conf.Discord, a.permissions, conf.HTTP.ExternalURL, conf.Webhook.Secret)
		if errBot != nil {
			return errBot
		}

		a.bot = bot
		a.monitor.SetNotifier(bot)
	}

	var counter scheduler.MemberCounter
	if a.bot != nil {
		counter = a.bot
	}

	jobs, errJobs := scheduler.New(a.videos, a.monitor, counter)
	if errJobs != nil {
		return errJobs
	}

	a.scheduler = jobs

	return nil
}

func (a *App) setupSentry() {
	if a.conf.Sentry.DSN == "" {
		slog.Info("Sentry.io support is disabled. To enable at runtime, set SENTRY_DSN.")

		return
	}

	sentryClient, err := log.NewSentryClient(a.conf.Sentry.DSN, a.conf.Sentry.Trace,
		a.conf.Sentry.SampleRate, BuildVersion, a.conf.HTTP.Mode)
	if err != nil {
		slog.Error("Failed to setup sentry client")
	} else {
		slog.Info("Sentry.io support is enabled.")
		a.sentry = sentryClient
	}
}

func (a *App) createRouter() (*gin.Engine, error) {
	conf := a.conf

	router, errRouter := httphelper.CreateRouter(httphelper.RouterOpts{
		HTTPLogEnabled:    conf.HTTP.LogEnabled,
		LogLevel:          conf.Log.Level,
		Mode:              conf.HTTP.Mode,
		SentryDSN:         conf.Sentry.DSN,
		Version:           BuildVersion,
		PProfEnabled:      conf.HTTP.PProfEnabled,
		PrometheusEnabled: conf.HTTP.PrometheusEnabled,
		UploadPath:        conf.HTTP.UploadPath,
		HTTPCORSEnabled:   conf.HTTP.CORSEnabled,
		CORSOrigins:       conf.HTTP.CORSOrigins,
	})
	if errRouter != nil {
		return nil, errRouter
	}

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "version": BuildVersion})
	})

	auth.NewAuthHandler(router, a.users, a.auth)
	news.NewNewsHandler(router, a.news, a.assets, a.auth)
	videos.NewVideosHandler(router, a.videos, a.auth)
	partners.NewPartnersHandler(router, a.partners, a.auth)
	leagues.NewLeaguesHandler(router, a.leagues, a.auth)
	webhook.NewWebhookHandler(router, a.news, a.stats, conf.Webhook.Secret)
	discord.NewPermissionsHandler(router, a.permissions, a.auth, conf.Webhook.Secret)
	discord.NewOAuthHandler(router, conf.Discord, a.permissions, conf.HTTP.ExternalURL)
	streams.NewStreamsHandler(router, a.monitor)

	return router, nil
}

func (a *App) Serve(rootCtx context.Context) error {
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, errRouter := a.createRouter()
	if errRouter != nil {
		slog.Error("Could not setup router", log.ErrAttr(errRouter))

		return errRouter
	}

	if a.bot != nil {
		if errBot := a.bot.Start(ctx); errBot != nil {
			slog.Error("Failed to start discord bot", log.ErrAttr(errBot))

			return errBot
		}
	}

	a.scheduler.Start()

	httpServer := httphelper.NewServer(a.conf.HTTP.Addr(), router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("Starting HTTP server",
			slog.String("address", a.conf.HTTP.Addr()),
			slog.String("url", a.conf.HTTP.ExternalURL))

		if errServe := httpServer.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			return errServe
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		slog.Info("Shutting down HTTP service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		if errShutdown := httpServer.Shutdown(shutdownCtx); errShutdown != nil { //nolint:contextcheck
			slog.Error("Error shutting down http service", log.ErrAttr(errShutdown))
		}

		return nil
	})

	if errWait := group.Wait(); errWait != nil {
		slog.Error("HTTP server returned error", log.ErrAttr(errWait))

		return errWait
	}

	slog.Info("Exiting...")

	return nil
}

func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.bot != nil {
		a.bot.Close()
	}

	if a.database != nil {
		if errClose := a.database.Close(); errClose != nil {
			slog.Error("Failed to close database cleanly", log.ErrAttr(errClose))
		}
	}

	if a.sentry != nil {
		a.sentry.Flush(2 * time.Second)
	}

	if a.logCloser != nil {
		a.logCloser()
	}

	return nil
}

package httphelper

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sosodev/duration"
	"github.com/uksimracing/website/pkg/log"

	sloggin "github.com/samber/slog-gin"
)

var (
	ErrValidator       = errors.New("failed to register validator")
	ErrStaticPathError = errors.New("could not load static path")
)

type RouterOpts struct {
	HTTPLogEnabled    bool
	LogLevel          log.Level
	Mode              string
	SentryDSN         string
	Version           string
	PProfEnabled      bool
	PrometheusEnabled bool
	UploadPath        string
	HTTPCORSEnabled   bool
	CORSOrigins       []string
}

// CreateRouter constructs a new router using gin.Engine with the provided RouterOpts.
func CreateRouter(opts RouterOpts) (*gin.Engine, error) {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = 8 << 24
	engine.Use(recoveryHandler())
	engine.Use(errorHandler())

	if errReg := registerCustomValidators(); errReg != nil {
		return nil, errReg
	}

	if opts.HTTPLogEnabled {
		useSloggin(engine, opts.LogLevel)
	}

	if opts.SentryDSN != "" {
		useSentry(engine, opts.Version)
	}

	if opts.PProfEnabled {
		pprof.Register(engine)
	}

	if opts.HTTPCORSEnabled {
		useCors(engine, opts.CORSOrigins, false)
	}

	if opts.PrometheusEnabled {
		usePrometheus(engine)
	}

	if opts.UploadPath != "" {
		if err := useUploads(engine, opts.UploadPath); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// registerCustomValidators handles registering our custom request field type validators within the
// validation engine that gin uses.
func registerCustomValidators() error {
	if instance, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := instance.RegisterValidation("duration", durationValidator); err != nil {
			return errors.Join(err, ErrValidator)
		}
	}

	return nil
}

func durationValidator(fl validator.FieldLevel) bool {
	dur, ok := fl.Field().Interface().(duration.Duration)
	if ok {
		return dur.ToTimeDuration().Seconds() > 0
	}

	return false
}

func useCors(engine *gin.Engine, origins []string, devMode bool) {
	engine.Use(useSecure(devMode, ""))

	if len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Webhook-Secret")
		corsConfig.AllowWildcard = true
		corsConfig.AllowCredentials = true

		engine.Use(cors.New(corsConfig))
	} else {
		slog.Warn("No cors origins defined, disabling")
	}
}

func usePrometheus(engine *gin.Engine) {
	prom := ginprom.New(func(prom *ginprom.Prometheus) {
		prom.Namespace = "uksr"
		prom.Subsystem = "http"
	})
	engine.Use(prom.Instrument())
}

// useUploads exposes the local asset store over /uploads so article and
// partner images resolve from the same origin as the API.
func useUploads(engine *gin.Engine, uploadPath string) error {
	absUploadPath, errUploadPath := filepath.Abs(uploadPath)
	if errUploadPath != nil {
		return errors.Join(errUploadPath, ErrStaticPathError)
	}

	engine.Static("/uploads", absUploadPath)

	return nil
}

func useSloggin(engine *gin.Engine, level log.Level) {
	logLevel := slog.LevelError
	switch level {
	case "error":
		logLevel = slog.LevelError
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "info":
		logLevel = slog.LevelInfo
	}

	logConfig := sloggin.Config{
		DefaultLevel: logLevel,
	}

	engine.Use(sloggin.NewWithConfig(slog.Default(), logConfig))
}

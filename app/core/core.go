package core

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wayfinder-ai/wayfinder/app/core/srv"
	"github.com/wayfinder-ai/wayfinder/app/store/sqlstore"
	"github.com/wayfinder-ai/wayfinder/pkg/object-storage/s3"
	"github.com/wayfinder-ai/wayfinder/pkg/screenshot"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores     func() *sqlstore.Provider
	httpEngine *gin.Engine

	metrics  *Metrics
	convLock *KeyLock
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28,   //days
				Compress:   true, // disabled by default
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		metrics:    NewMetrics("wayfinder", "core"),
		httpEngine: gin.New(),
		convLock:   NewKeyLock(),
	}

	// setup store
	setupSqlStore(core)

	core.srv = srv.SetupSrvs(
		srv.ApplyAI(cfg.AI),
		// web socket
		srv.ApplyTower(),
		srv.ApplyResearch(cfg.Research.Endpoint, cfg.Research.Token, time.Duration(cfg.Research.TimeoutSeconds)*time.Second),
		srv.ApplyCapturer(setupCapturer(cfg.ObjectStorage)),
	)

	return core
}

func setupCapturer(cfg ObjectStorageDriver) screenshot.Capturer {
	if cfg.Driver != "s3" || cfg.S3 == nil {
		return nil
	}
	client := s3.NewS3Client(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKey, cfg.S3.SecretKey)
	return screenshot.NewBrowserCapturer(client, cfg.StaticDomain)
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

// ConversationLock serializes pipeline runs per conversation so two rapid
// utterances on the same conversation never interleave their persistence.
func (s *Core) ConversationLock() *KeyLock {
	return s.convLock
}

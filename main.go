package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	_uuid "github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"supportchat/controller"
	"supportchat/faq"
	"supportchat/model"
	"supportchat/platform"
	"supportchat/service"
	"supportchat/web"
)

// CORSMiddleware lets the configured origin call the API from a browser
// and answers preflight requests itself.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Requested-With")
		h.Set("Access-Control-Expose-Headers", "X-Request-Id")
		h.Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware tags each request with a uuid. Handlers read it as
// c.GetString("requestId") for their log prefixes; clients see it in
// X-Request-Id.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := _uuid.NewString()
		c.Header("X-Request-Id", id)
		c.Set("requestId", id)
		c.Next()
	}
}

// LogMiddleware writes one access log line per request.
func LogMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)

		status := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		userAgent := c.Request.UserAgent()
		requestId := c.GetString("requestId")

		logger.Infof(
			" [%s] %d | %v | %s | %s | %s | %s ",
			requestId,
			status,
			latency,
			clientIP,
			method,
			path,
			userAgent,
		)
	}
}

type server struct {
	cfg    *platform.Config
	logger *logrus.Logger
	chat   controller.ChatController
	health controller.HealthController
}

func setupRouter(s *server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(s.cfg.CORSOrigin))
	r.Use(RequestIDMiddleware())
	r.Use(LogMiddleware(s.logger))

	api := r.Group("/api")
	{
		api.POST("/chat", s.chat.Chat)
		api.GET("/chat/history", s.chat.History)
	}
	r.GET("/healthz", s.health.Health)
	r.GET("/", web.Index)
	return r
}

// newOracle talks to OpenAI or to Gemini's OpenAI-compatible endpoint,
// depending on cfg.Provider.
func newOracle(cfg platform.LLMConfig, logger *logrus.Logger) service.Oracle {
	return service.NewOpenAIOracle(platform.NewLLMClient(cfg), cfg.Model, service.SystemInstruction, logger)
}

func main() {
	fmt.Println("Server started...")

	cfg, err := platform.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := platform.NewLogger(cfg.LogPath, "supportchat")

	//init database
	db, err := platform.OpenDB(cfg.DB)
	if err != nil {
		logger.Fatalf("failed to connect database, %s", err)
	}
	store := model.NewStore(db)
	if err := store.Install(); err != nil {
		logger.Fatalf("failed to migrate database, %s", err)
	}

	entries, err := faq.Load(cfg.FAQPath)
	if err != nil {
		logger.Fatalf("failed to load FAQ, %s", err)
	}
	logger.Infof("loaded %d FAQ entries", len(entries))

	chat := &service.ChatService{
		Store:         store,
		Oracle:        newOracle(cfg.LLM, logger),
		FAQ:           entries,
		Logger:        logger,
		HistoryLimit:  cfg.HistoryLimit,
		OracleTimeout: cfg.LLM.Timeout,
	}

	var mailer *platform.Mailer
	if cfg.Mail.Enabled() {
		mailer = platform.NewMailer(cfg.Mail)
		chat.Notifier = &service.MailNotifier{Mailer: mailer}
	}

	r := setupRouter(&server{
		cfg:    cfg,
		logger: logger,
		chat:   controller.ChatController{Chatter: chat, Reader: store, Logger: logger},
		health: controller.HealthController{DB: store, Logger: logger},
	})

	if cfg.ReportCron != "" {
		report := &service.ReportService{Store: store, Logger: logger}
		if mailer != nil {
			report.Mailer = mailer
		}
		c := cron.New()
		if _, err := c.AddFunc(cfg.ReportCron, func() {
			_, _ = report.Run(context.Background())
		}); err != nil {
			logger.Fatalf("invalid REPORT_CRON %q, %s", cfg.ReportCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("server stopped, %s", err)
	}
}

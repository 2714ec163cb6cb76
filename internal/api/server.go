package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

type Ingester interface {
	Ingest(ctx context.Context, feeds []model.FeedSource) (int, error)
}

type ArticleLister interface {
	Articles(ctx context.Context, query model.ArticleQuery) ([]model.StoredArticle, error)
}

type Server struct {
	ingester Ingester
	articles ArticleLister
	// Порог по умолчанию для выдачи
	minScore float64
	logger   *slog.Logger
	now      func() time.Time
}

func NewServer(ingester Ingester, articles ArticleLister, minScore float64, logger *slog.Logger) *Server {
	return &Server{
		ingester: ingester,
		articles: articles,
		minScore: minScore,
		logger:   logger,
		now:      time.Now,
	}
}

// Router собирает gin движок со всеми маршрутами
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), allowAllOrigins())

	r.GET("/health", s.handleHealth)
	r.POST("/ingest", s.handleIngest)
	r.GET("/articles", s.handleArticles)

	return r
}

// CORS без ограничений, выдачу читают с чужих сайтов
func allowAllOrigins() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC(),
	})
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

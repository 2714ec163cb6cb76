package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

type articlesQuery struct {
	Region   string   `form:"region"`
	Topics   []string `form:"topics"`
	Language string   `form:"language"`
	// nil и 0 означают порог из конфига
	MinScore *float64 `form:"min_score" binding:"omitempty,min=0,max=1"`
	Count    int      `form:"count,default=10" binding:"min=1,max=50"`
}

type articleResponse struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Summary          string    `json:"summary"`
	Source           string    `json:"source"`
	PublishedAt      time.Time `json:"published_at"`
	ImageURL         *string   `json:"image_url"`
	Region           string    `json:"region"`
	Topics           []string  `json:"topics"`
	Score            float64   `json:"score"`
	Language         string    `json:"language"`
	CanonicalURL     *string   `json:"canonical_url"`
	AIGeneratedImage bool      `json:"ai_generated_image"`
}

type articlesMeta struct {
	Count int `json:"count"`
}

type articlesResponse struct {
	Items []articleResponse `json:"items"`
	Meta  articlesMeta      `json:"meta"`
}

func (s *Server) handleArticles(c *gin.Context) {
	var q articlesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	minScore := s.minScore
	if q.MinScore != nil && *q.MinScore != 0 {
		minScore = *q.MinScore
	}

	articles, err := s.articles.Articles(c.Request.Context(), model.ArticleQuery{
		Region:   q.Region,
		Language: q.Language,
		MinScore: minScore,
		Topics:   q.Topics,
		Limit:    q.Count,
	})
	if err != nil {
		s.logger.Error("list articles", "err", err)
		abortWithDetail(c, http.StatusInternalServerError, "cannot list articles")
		return
	}

	items := lo.Map(articles, func(a model.StoredArticle, _ int) articleResponse {
		return newArticleResponse(a)
	})

	c.JSON(http.StatusOK, articlesResponse{
		Items: items,
		Meta:  articlesMeta{Count: len(items)},
	})
}

func newArticleResponse(a model.StoredArticle) articleResponse {
	topics := a.Topics
	if topics == nil {
		topics = []string{}
	}

	return articleResponse{
		ID:               a.RowID,
		Title:            a.Title,
		Summary:          a.Summary,
		Source:           a.Source,
		PublishedAt:      a.PublishedAt,
		ImageURL:         optional(a.ImageURL),
		Region:           a.Region,
		Topics:           topics,
		Score:            a.Score,
		Language:         a.Language,
		CanonicalURL:     optional(a.CanonicalURL),
		AIGeneratedImage: a.AIGeneratedImage,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/museum-news-feed/internal/fetcher"
	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

type feedPayload struct {
	Name        string   `json:"name" binding:"required"`
	URL         string   `json:"url" binding:"required"`
	Region      string   `json:"region" binding:"required"`
	Topics      []string `json:"topics"`
	Language    string   `json:"language"`
	SummaryHint string   `json:"summary_hint"`
}

func (p feedPayload) model() model.FeedSource {
	return model.FeedSource{
		Name:        p.Name,
		URL:         p.URL,
		Region:      p.Region,
		Topics:      p.Topics,
		Language:    p.Language,
		SummaryHint: p.SummaryHint,
	}.WithDefaults()
}

type ingestResponse struct {
	Ingested int    `json:"ingested"`
	RunID    string `json:"run_id"`
}

// Тело запроса необязательное: без него берем ленты из конфигурации
func (s *Server) handleIngest(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, "cannot read request body")
		return
	}

	var feeds []model.FeedSource

	if len(bytes.TrimSpace(data)) > 0 {
		var payload []feedPayload
		if err := binding.JSON.BindBody(data, &payload); err != nil {
			abortWithDetail(c, http.StatusBadRequest, err.Error())
			return
		}

		feeds = lo.Map(payload, func(p feedPayload, _ int) model.FeedSource {
			return p.model()
		})
	}

	runID := uuid.NewString()
	ctx := fetcher.WithRunID(c.Request.Context(), runID)

	n, err := s.ingester.Ingest(ctx, feeds)
	switch {
	case errors.Is(err, fetcher.ErrNoFeedConfiguration):
		abortWithDetail(c, http.StatusBadRequest, "No feed configurations available")
		return
	case err != nil && !fetcher.PartialFailure(err):
		s.logger.Error("ingestion failed", "run_id", runID, "err", err)
		abortWithDetail(c, http.StatusInternalServerError, "ingestion failed")
		return
	case err != nil:
		s.logger.Warn("ingestion finished with failed feeds", "run_id", runID, "err", err)
	}

	c.JSON(http.StatusOK, ingestResponse{Ingested: n, RunID: runID})
}

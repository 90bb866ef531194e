package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
	"content-sync/pkg/syncservice"
)

const defaultHistoryLimit = 10

// ErrorResponse is the body of a failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ExtractResponse is the body of a successful extraction
type ExtractResponse struct {
	ExtractedContent []domain.Record `json:"extractedContent"`
}

// handleExtract extracts the repeated url query params, or the source's
// first page when none are given
func (s *Server) handleExtract(c *gin.Context) {
	ctx := c.Request.Context()

	var entries []domain.Entry
	if requested := c.QueryArray("url"); len(requested) > 0 {
		entries = make([]domain.Entry, 0, len(requested))
		for _, u := range requested {
			entries = append(entries, domain.Entry{URL: u})
		}
	} else {
		var err error
		entries, err = s.source.Entries(ctx)
		if err != nil {
			s.logger.Error("Error extracting content", logger.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Error extracting content",
				Message: err.Error(),
			})
			return
		}
	}

	records := s.extractor.Run(ctx, entries)
	if records == nil {
		records = []domain.Record{}
	}
	c.JSON(http.StatusOK, ExtractResponse{ExtractedContent: records})
}

// handleSync runs one batch sync. The run is detached from the request so a
// disconnecting client does not abort it.
func (s *Server) handleSync(c *gin.Context) {
	result, err := s.syncer.Run(context.WithoutCancel(c.Request.Context()))
	if errors.Is(err, syncservice.ErrRunInProgress) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Sync already running", Message: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error running sync", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit", Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	history, err := s.syncer.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error reading sync history", Message: err.Error()})
		return
	}
	if history == nil {
		history = []domain.SyncResult{}
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

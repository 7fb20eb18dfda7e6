package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gusto/internal/translate"
)

type translateRequest struct {
	Text       string `json:"text" binding:"required"`
	TargetLang string `json:"target_lang" binding:"required"`
	SourceLang string `json:"source_lang"`
}

func (s *Server) handleTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.translator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": translate.ErrNotConfigured.Error()})
		return
	}

	result, err := s.translator.Translate(c.Request.Context(), req.Text, req.TargetLang, req.SourceLang)
	if err != nil {
		if errors.Is(err, translate.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

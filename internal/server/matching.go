package server

import (
	"net/http"

	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCandidates(c *gin.Context) {
	projectID, err := parseSnowflake(c.Param("id"))
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}

	candidates, err := s.matcherSvc.SelectCandidates(c.Request.Context(), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": candidates})
}

func (s *Server) ExplainExclusions(c *gin.Context) {
	projectID, err := parseSnowflake(c.Param("id"))
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}

	exclusions, err := s.matcherSvc.ExplainExclusions(c.Request.Context(), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": exclusions})
}

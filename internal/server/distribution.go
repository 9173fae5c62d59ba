package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	"github.com/gin-gonic/gin"
)

// DistributeProject enqueues the asynchronous fan-out for a project. The
// request path returns as soon as the job is queued.
func (s *Server) DistributeProject(c *gin.Context) {
	projectID, err := parseSnowflake(c.Param("id"))
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}

	if err := s.distributor.Enqueue(c.Request.Context(), projectID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{
		"project_id": projectID.String(),
		"status":     "queued",
	}})
}

func parseSnowflake(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, ErrInvalidRequest
	}
	return id, nil
}

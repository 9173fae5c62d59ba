package server

import (
	"net/http"

	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	"github.com/gin-gonic/gin"
)

// GetSupplierRating returns the stored composite rating, computing it first
// when none exists.
func (s *Server) GetSupplierRating(c *gin.Context) {
	supplierID, err := parseSnowflake(c.Param("id"))
	if err != nil {
		AbortWithError(c, ratingdomain.ErrInvalidID)
		return
	}

	rating, err := s.ratingSvc.Get(c.Request.Context(), supplierID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rating})
}

// RecalculateSupplierRating forces a fresh computation, e.g. after a review
// moderation pass.
func (s *Server) RecalculateSupplierRating(c *gin.Context) {
	supplierID, err := parseSnowflake(c.Param("id"))
	if err != nil {
		AbortWithError(c, ratingdomain.ErrInvalidID)
		return
	}

	rating, err := s.ratingSvc.Calculate(c.Request.Context(), supplierID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rating})
}

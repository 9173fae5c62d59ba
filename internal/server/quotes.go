package server

import (
	"net/http"

	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	quotedomain "github.com/craftbid/matchengine/internal/quote/domain"
	"github.com/gin-gonic/gin"
)

type submitQuoteRequest struct {
	ProjectID    string `json:"project_id" binding:"required"`
	SupplierID   string `json:"supplier_id" binding:"required"`
	PriceCents   int64  `json:"price_cents"`
	DeliveryDays *int   `json:"delivery_days"`
	Note         string `json:"note"`
}

type withdrawQuoteRequest struct {
	SupplierID string `json:"supplier_id" binding:"required"`
}

func (s *Server) SubmitQuote(c *gin.Context) {
	var req submitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	projectID, err := parseSnowflake(req.ProjectID)
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}
	supplierID, err := parseSnowflake(req.SupplierID)
	if err != nil {
		AbortWithError(c, quotedomain.ErrInvalidID)
		return
	}

	quote, err := s.quoteSvc.Submit(c.Request.Context(), quotedomain.SubmitQuoteRequest{
		ProjectID:    projectID,
		SupplierID:   supplierID,
		PriceCents:   req.PriceCents,
		DeliveryDays: req.DeliveryDays,
		Note:         req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": quote})
}

func (s *Server) AcceptQuote(c *gin.Context) {
	quoteID, err := parseSnowflake(c.Param("id"))
	if err != nil {
		AbortWithError(c, quotedomain.ErrInvalidID)
		return
	}

	quote, err := s.quoteSvc.Accept(c.Request.Context(), quoteID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) WithdrawQuote(c *gin.Context) {
	quoteID, err := parseSnowflake(c.Param("id"))
	if err != nil {
		AbortWithError(c, quotedomain.ErrInvalidID)
		return
	}

	var req withdrawQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	supplierID, err := parseSnowflake(req.SupplierID)
	if err != nil {
		AbortWithError(c, quotedomain.ErrInvalidID)
		return
	}

	quote, err := s.quoteSvc.Withdraw(c.Request.Context(), quoteID, supplierID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) ListRankedQuotes(c *gin.Context) {
	projectID, err := parseSnowflake(c.Param("id"))
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}

	quotes, err := s.quoteSvc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ranked, err := s.rankSvc.Rank(c.Request.Context(), quotes)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ranked})
}

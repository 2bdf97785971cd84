package bidhandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lotauctiongo/internal/http/httperr"
	"lotauctiongo/internal/services/bid"
)

type Handler struct {
	svc bid.IBidService
}

func New(svc bid.IBidService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/lots/:id/bid", h.placeBid)
	r.GET("/bids", h.myBids)
}

// @Summary		Place a bid
// @Description	Bid must beat the lot's current top bid by the configured increment. Optional text becomes a comment attached to the bid.
// @Tags			Bids
// @Param			id		path		int				true	"Lot ID"
// @Param			body	body		PlaceBidBody	true	"Bid payload"
// @Success		201		{object}	models.Bid
// @Failure		400		{object}	httperr.ErrorResponse
// @Failure		403		{object}	httperr.ErrorResponse
// @Failure		404		{object}	httperr.ErrorResponse
// @Failure		429		{object}	httperr.ErrorResponse
// @Router			/lots/{id}/bid [post]
func (h *Handler) placeBid(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid lot id"})
		return
	}
	var body PlaceBidBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}

	b, err := h.svc.PlaceBid(c.Request.Context(), lotID, body.UserID, body.Amount, body.Text)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// @Summary		List own bids
// @Tags			Bids
// @Param			user_id	query		int		true	"User ID"
// @Param			status	query		string	false	"Filter"	Enums(overbid,active)
// @Success		200		{array}		bid.UserBid
// @Failure		400		{object}	httperr.ErrorResponse
// @Router			/bids [get]
func (h *Handler) myBids(c *gin.Context) {
	var q ListBidsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.ListUserBids(c.Request.Context(), q.UserID, q.Status)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

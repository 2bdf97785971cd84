package lothandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lotauctiongo/internal/http/httperr"
	"lotauctiongo/internal/services/lot"
)

type Handler struct {
	svc lot.ILotService
}

func New(svc lot.ILotService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/lots", h.list)
	r.GET("/lots/my", h.myLot)
	r.GET("/lots/:id", h.info)
	r.POST("/lots", h.create)
	r.PUT("/lots/my", h.update)
	r.DELETE("/lots/:id", h.remove)
}

// @Summary		List lots
// @Description	Home page: paginated lots, searchable by owner name, sortable by price or age.
// @Tags			Lots
// @Param			search	query		string	false	"Owner name substring"
// @Param			sort	query		string	false	"Sort order"	Enums(price_asc,price_desc,created_at_asc,created_at_desc)
// @Param			limit	query		int		false	"Page size (0-100)"	default(12)
// @Param			offset	query		int		false	"Offset"			default(0)
// @Success		200		{object}	LotPage
// @Failure		400		{object}	httperr.ErrorResponse
// @Router			/lots [get]
func (h *Handler) list(c *gin.Context) {
	var q ListLotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}
	lots, total, err := h.svc.ListLots(c.Request.Context(), lot.ListQuery{
		Search: q.Search, Sort: q.Sort, Limit: q.Limit, Offset: q.Offset,
	})
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, LotPage{Count: total, Results: lots})
}

// @Summary		Get lot details
// @Tags			Lots
// @Param			id	path		int	true	"Lot ID"
// @Success		200	{object}	models.Lot
// @Failure		404	{object}	httperr.ErrorResponse
// @Router			/lots/{id} [get]
func (h *Handler) info(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid lot id"})
		return
	}
	l, err := h.svc.GetLot(c.Request.Context(), id)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary		Get own lot
// @Tags			Lots
// @Param			user_id	query		int	true	"User ID"
// @Success		200		{object}	models.Lot
// @Failure		404		{object}	httperr.ErrorResponse
// @Router			/lots/my [get]
func (h *Handler) myLot(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "user_id is required"})
		return
	}
	l, err := h.svc.GetMyLot(c.Request.Context(), userID)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary		Create own lot
// @Description	At most one lot per user.
// @Tags			Lots
// @Param			body	body		LotBody	true	"Lot payload"
// @Success		201		{object}	models.Lot
// @Failure		400		{object}	httperr.ErrorResponse
// @Router			/lots [post]
func (h *Handler) create(c *gin.Context) {
	var body LotBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}
	l, err := h.svc.CreateLot(c.Request.Context(), body.UserID, lot.LotInput{
		Description: body.Description, FirstName: body.FirstName, LastName: body.LastName,
	})
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// @Summary		Update own lot
// @Tags			Lots
// @Param			body	body		LotBody	true	"Lot payload"
// @Success		200		{object}	models.Lot
// @Failure		404		{object}	httperr.ErrorResponse
// @Router			/lots/my [put]
func (h *Handler) update(c *gin.Context) {
	var body LotBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}
	l, err := h.svc.UpdateLot(c.Request.Context(), body.UserID, lot.LotInput{
		Description: body.Description, FirstName: body.FirstName, LastName: body.LastName,
	})
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary		Delete a lot
// @Description	Staff only; cascades to the lot's bids and comments.
// @Tags			Lots
// @Param			id		path	int				true	"Lot ID"
// @Param			body	body	DeleteLotBody	true	"Acting user"
// @Success		204
// @Failure		403	{object}	httperr.ErrorResponse
// @Router			/lots/{id} [delete]
func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid lot id"})
		return
	}
	var body DeleteLotBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.DeleteLot(c.Request.Context(), body.UserID, id); err != nil {
		httperr.JSON(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

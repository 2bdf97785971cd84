package commenthandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lotauctiongo/internal/http/httperr"
	"lotauctiongo/internal/services/comment"
)

type Handler struct {
	svc comment.ICommentService
}

func New(svc comment.ICommentService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/lots/:id/comments", h.post)
	r.GET("/lots/:id/comments", h.list)
}

// @Summary		Post a comment
// @Description	Text or a bid reference is required. Replies to replies are flattened onto the top-level comment with an @mention.
// @Tags			Comments
// @Param			id		path		int				true	"Lot ID"
// @Param			body	body		PostCommentBody	true	"Comment payload"
// @Success		201		{object}	models.Comment
// @Failure		400		{object}	httperr.ErrorResponse
// @Failure		404		{object}	httperr.ErrorResponse
// @Failure		429		{object}	httperr.ErrorResponse
// @Router			/lots/{id}/comments [post]
func (h *Handler) post(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid lot id"})
		return
	}
	var body PostCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}

	cm, err := h.svc.PostComment(c.Request.Context(), lotID, body.UserID, body.Text, body.BidID, body.ParentID)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

// @Summary		List a lot's comments
// @Tags			Comments
// @Param			id	path		int	true	"Lot ID"
// @Success		200	{array}		models.Comment
// @Failure		400	{object}	httperr.ErrorResponse
// @Router			/lots/{id}/comments [get]
func (h *Handler) list(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid lot id"})
		return
	}
	out, err := h.svc.ListLotComments(c.Request.Context(), lotID)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

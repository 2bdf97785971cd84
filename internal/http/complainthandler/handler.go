package complainthandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lotauctiongo/internal/http/httperr"
	"lotauctiongo/internal/services/complaint"
)

type Handler struct {
	svc complaint.IComplaintService
}

func New(svc complaint.IComplaintService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/complaints/:id", h.file)
	r.GET("/complaints", h.list)
}

// @Summary		File a complaint
// @Tags			Complaints
// @Param			id		path		int					true	"Complaint theme ID"
// @Param			body	body		FileComplaintBody	true	"Complaint payload"
// @Success		201		{object}	models.Complaint
// @Failure		400		{object}	httperr.ErrorResponse
// @Failure		404		{object}	httperr.ErrorResponse
// @Router			/complaints/{id} [post]
func (h *Handler) file(c *gin.Context) {
	themeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid theme id"})
		return
	}
	var body FileComplaintBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}

	out, err := h.svc.FileComplaint(c.Request.Context(), body.UserID, themeID, body.Text)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// @Summary		List complaints
// @Description	Staff only.
// @Tags			Complaints
// @Param			user_id	query		int	true	"Acting user ID"
// @Success		200		{array}		models.Complaint
// @Failure		403		{object}	httperr.ErrorResponse
// @Router			/complaints [get]
func (h *Handler) list(c *gin.Context) {
	var q ListComplaintsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.ListComplaints(c.Request.Context(), q.UserID)
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

package commenthandler

type PostCommentBody struct {
	UserID   int64  `json:"user_id" binding:"required" example:"42"`
	Text     string `json:"text,omitempty"             example:"гарний лот"`
	BidID    *int64 `json:"bid_id,omitempty"`
	ParentID *int64 `json:"parent_id,omitempty"`
} // @name PostCommentRequest

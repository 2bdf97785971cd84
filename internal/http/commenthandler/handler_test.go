package commenthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"lotauctiongo/internal/apperrors"
	"lotauctiongo/internal/models"
)

type stubCommentService struct {
	postErr error
	created *models.Comment
}

func (s *stubCommentService) PostComment(ctx context.Context, lotID, userID int64, text string, bidID, parentID *int64) (*models.Comment, error) {
	if s.postErr != nil {
		return nil, s.postErr
	}
	return s.created, nil
}

func (s *stubCommentService) ListLotComments(ctx context.Context, lotID int64) ([]models.Comment, error) {
	return []models.Comment{}, nil
}

func post(t *testing.T, svc *stubCommentService, body PostCommentBody) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(svc).Register(r)

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/lots/1/comments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostComment_Created(t *testing.T) {
	svc := &stubCommentService{created: &models.Comment{ID: 5, LotID: 1, UserID: 2, Text: "гарно"}}

	w := post(t, svc, PostCommentBody{UserID: 2, Text: "гарно"})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestPostComment_RateLimitedMapsTo429(t *testing.T) {
	svc := &stubCommentService{postErr: fmt.Errorf("too many comments: %w", apperrors.ErrRateLimited)}

	w := post(t, svc, PostCommentBody{UserID: 2, Text: "spam"})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestPostComment_ValidationMapsTo400(t *testing.T) {
	svc := &stubCommentService{postErr: fmt.Errorf("either text or a bid reference is required: %w", apperrors.ErrValidation)}

	w := post(t, svc, PostCommentBody{UserID: 2})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

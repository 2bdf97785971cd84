package comment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"lotauctiongo/internal/apperrors"
)

type fakeLimiter struct {
	allow bool
	calls int
	keys  []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	f.calls++
	f.keys = append(f.keys, key)
	return f.allow, nil
}

func newMockService(t *testing.T, l *fakeLimiter) (ICommentService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCommentService(db, l), mock, db
}

func userRow(id int64, first, last string, banned bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "first_name", "last_name", "discord_id", "is_banned", "is_staff", "created_at",
	}).AddRow(id, "u@example.com", first, last, "", banned, false, time.Now())
}

func expectActor(mock sqlmock.Sqlmock, id int64) {
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(userRow(id, "Іван", "Франко", false))
}

func expectLotExists(mock sqlmock.Sqlmock, lotID int64, exists bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM lots WHERE id = \$1\)`).
		WithArgs(lotID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestPostComment_RequiresTextOrBid(t *testing.T) {
	svc, mock, _ := newMockService(t, &fakeLimiter{allow: true})

	expectActor(mock, 2)

	_, err := svc.PostComment(context.Background(), 1, 2, "   ", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostComment_PlainTextComment(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	svc, mock, _ := newMockService(t, limiter)

	expectActor(mock, 2)
	expectLotExists(mock, 1, true)
	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(int64(1), int64(2), nil, nil, "привіт").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, time.Now()))

	c, err := svc.PostComment(context.Background(), 1, 2, "привіт", nil, nil)
	require.NoError(t, err)
	require.EqualValues(t, 5, c.ID)
	require.Equal(t, "привіт", c.Text)
	require.Equal(t, []string{"2"}, limiter.keys)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostComment_CrossLotBidRejected(t *testing.T) {
	svc, mock, _ := newMockService(t, &fakeLimiter{allow: true})

	bidID := int64(7)
	expectActor(mock, 2)
	expectLotExists(mock, 1, true)
	mock.ExpectQuery(`SELECT lot_id FROM bids WHERE id = \$1`).
		WithArgs(bidID).
		WillReturnRows(sqlmock.NewRows([]string{"lot_id"}).AddRow(2)) // belongs to lot 2

	_, err := svc.PostComment(context.Background(), 1, 2, "text", &bidID, nil)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostComment_CrossLotParentRejected(t *testing.T) {
	svc, mock, _ := newMockService(t, &fakeLimiter{allow: true})

	parentID := int64(9)
	expectActor(mock, 2)
	expectLotExists(mock, 1, true)
	mock.ExpectQuery(`SELECT lot_id, user_id, parent_id FROM comments WHERE id = \$1`).
		WithArgs(parentID).
		WillReturnRows(sqlmock.NewRows([]string{"lot_id", "user_id", "parent_id"}).AddRow(2, 3, nil))

	_, err := svc.PostComment(context.Background(), 1, 2, "text", nil, &parentID)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPostComment_ReplyToTopLevelKeepsParent(t *testing.T) {
	svc, mock, _ := newMockService(t, &fakeLimiter{allow: true})

	parentID := int64(9)
	expectActor(mock, 2)
	expectLotExists(mock, 1, true)
	mock.ExpectQuery(`SELECT lot_id, user_id, parent_id FROM comments WHERE id = \$1`).
		WithArgs(parentID).
		WillReturnRows(sqlmock.NewRows([]string{"lot_id", "user_id", "parent_id"}).AddRow(1, 3, nil))
	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(int64(1), int64(2), nil, parentID, "відповідь").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, time.Now()))

	c, err := svc.PostComment(context.Background(), 1, 2, "відповідь", nil, &parentID)
	require.NoError(t, err)
	require.Equal(t, parentID, *c.ParentID)
	require.Equal(t, "відповідь", c.Text)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostComment_ReplyToReplyFlattens(t *testing.T) {
	svc, mock, _ := newMockService(t, &fakeLimiter{allow: true})

	// Comment A (id 9, top-level), comment B (id 20, reply to A, by user 3).
	// A reply to B must land under A with "@<B's author>: " prefixed.
	replyID := int64(20)
	expectActor(mock, 2)
	expectLotExists(mock, 1, true)
	mock.ExpectQuery(`SELECT lot_id, user_id, parent_id FROM comments WHERE id = \$1`).
		WithArgs(replyID).
		WillReturnRows(sqlmock.NewRows([]string{"lot_id", "user_id", "parent_id"}).AddRow(1, 3, 9))
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(userRow(3, "Оля", "Коваль", false))
	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(int64(1), int64(2), nil, int64(9), "@Оля Коваль: згодна").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(21, time.Now()))

	c, err := svc.PostComment(context.Background(), 1, 2, "згодна", nil, &replyID)
	require.NoError(t, err)
	require.EqualValues(t, 9, *c.ParentID)
	require.Equal(t, "@Оля Коваль: згодна", c.Text)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostComment_RateLimited(t *testing.T) {
	limiter := &fakeLimiter{allow: false}
	svc, mock, _ := newMockService(t, limiter)

	expectActor(mock, 2)
	expectLotExists(mock, 1, true)

	// No insert expected: the gate fires before any write.
	_, err := svc.PostComment(context.Background(), 1, 2, "spam", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrRateLimited)
	require.Equal(t, 1, limiter.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostComment_LotNotFound(t *testing.T) {
	svc, mock, _ := newMockService(t, &fakeLimiter{allow: true})

	expectActor(mock, 2)
	expectLotExists(mock, 404, false)

	_, err := svc.PostComment(context.Background(), 404, 2, "text", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostComment_BidOnlyCommentStoresNullText(t *testing.T) {
	svc, mock, _ := newMockService(t, &fakeLimiter{allow: true})

	bidID := int64(7)
	expectActor(mock, 2)
	expectLotExists(mock, 1, true)
	mock.ExpectQuery(`SELECT lot_id FROM bids WHERE id = \$1`).
		WithArgs(bidID).
		WillReturnRows(sqlmock.NewRows([]string{"lot_id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(int64(1), int64(2), bidID, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))

	c, err := svc.PostComment(context.Background(), 1, 2, "", &bidID, nil)
	require.NoError(t, err)
	require.Equal(t, bidID, *c.BidID)
	require.NoError(t, mock.ExpectationsWereMet())
}

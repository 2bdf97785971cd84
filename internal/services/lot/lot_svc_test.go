package lot

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"lotauctiongo/internal/apperrors"
)

func newMockService(t *testing.T) (ILotService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLotService(db), mock, db
}

func userRow(id int64, banned, staff bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "first_name", "last_name", "discord_id", "is_banned", "is_staff", "created_at",
	}).AddRow(id, "u@example.com", "Іван", "Франко", "", banned, staff, time.Now())
}

func TestCreateLot_OnePerUser(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(2)).WillReturnRows(userRow(2, false, false))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM lots WHERE user_id = \$1\)`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.CreateLot(context.Background(), 2, LotInput{Description: "опис"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLot_OK(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(2)).WillReturnRows(userRow(2, false, false))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM lots WHERE user_id = \$1\)`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO lots`).
		WithArgs(int64(2), "опис", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "last_bet", "created_at"}).
			AddRow(1, 0, time.Now()))

	l, err := svc.CreateLot(context.Background(), 2, LotInput{Description: "опис"})
	require.NoError(t, err)
	require.EqualValues(t, 1, l.ID)
	require.Zero(t, l.LastBet)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLot_BannedUser(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(2)).WillReturnRows(userRow(2, true, false))

	_, err := svc.CreateLot(context.Background(), 2, LotInput{Description: "опис"})
	require.ErrorIs(t, err, apperrors.ErrPermission)
}

func TestDeleteLot_RequiresStaff(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(2)).WillReturnRows(userRow(2, false, false))

	err := svc.DeleteLot(context.Background(), 2, 1)
	require.ErrorIs(t, err, apperrors.ErrPermission)
}

func TestDeleteLot_StaffOK(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(1)).WillReturnRows(userRow(1, false, true))
	mock.ExpectExec(`DELETE FROM lots WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DeleteLot(context.Background(), 1, 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLot_NotFound(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`FROM lots WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "description", "first_name", "last_name", "last_bet", "created_at",
		}))

	_, err := svc.GetLot(context.Background(), 404)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListLots_SearchAndSort(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM lots l JOIN users u`).
		WithArgs("%оля%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY l\.last_bet DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("%оля%", 12, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "description", "first_name", "last_name", "last_bet", "created_at",
		}).AddRow(1, 9, "опис", nil, nil, 70, time.Now()))

	list, total, err := svc.ListLots(context.Background(), ListQuery{Search: "оля", Sort: "price_desc"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	require.EqualValues(t, 70, list[0].LastBet)
	require.NoError(t, mock.ExpectationsWereMet())
}

package users

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoRecentRecipeIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT recipe_id\\s+FROM user_recipe_history").
		WithArgs("user-1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"recipe_id"}).AddRow(9).AddRow(4).AddRow(7))

	ids, err := repo.RecentRecipeIDs(context.Background(), "user-1", 5)
	if err != nil {
		t.Fatalf("RecentRecipeIDs: %v", err)
	}
	if len(ids) != 3 || ids[0] != 9 || ids[1] != 4 || ids[2] != 7 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoAppendRecipeIDsUsesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO user_recipe_history").
		WithArgs("user-1", 3).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO user_recipe_history").
		WithArgs("user-1", 8).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := repo.AppendRecipeIDs(context.Background(), "user-1", []int{3, 8}); err != nil {
		t.Fatalf("AppendRecipeIDs: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

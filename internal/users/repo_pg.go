package users

import (
	"context"
	"database/sql"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) RecentRecipeIDs(ctx context.Context, userID string, limit int) ([]int, error) {
	const query = `
SELECT recipe_id
FROM user_recipe_history
WHERE user_id = $1
ORDER BY id DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0, limit)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PGRepo) AppendRecipeIDs(ctx context.Context, userID string, recipeIDs []int) error {
	const query = `
INSERT INTO user_recipe_history (user_id, recipe_id, created_at)
VALUES ($1, $2, now())`
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	for _, id := range recipeIDs {
		if _, err := tx.ExecContext(ctx, query, userID, id); err != nil {
			return fmt.Errorf("insert history recipe_id=%d: %w", id, err)
		}
	}
	return tx.Commit()
}

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/socialcore/socialcore/internal/social/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, first_name, last_name, password_hash,
	is_active, is_staff, mfa_secret, mfa_enabled, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u          domain.User
		mfaSecret  sql.NullString
		mfaEnabled sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &mfaSecret, &mfaEnabled,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.MFASecret = mapNullStringPtr(mfaSecret)
	u.MFAEnabled = mapNullTimePtr(mfaEnabled)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, first_name, last_name, password_hash,
			is_active, is_staff, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash,
		u.IsActive, u.IsStaff, u.CreatedAt, u.UpdatedAt)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?;
	`, id)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	// The email column is COLLATE NOCASE, so equality is case-insensitive.
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = ?;
	`, email)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUsersByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id IN (`+placeholders+`)
		ORDER BY id;
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// searchPredicate matches active users whose email, first name or last name
// contains the keyword. LIKE in sqlite is already case-insensitive for ASCII;
// the ESCAPE clause makes metacharacters in the keyword match literally.
const searchPredicate = `
	is_active = TRUE
	AND (
		email LIKE ? ESCAPE '\'
		OR first_name LIKE ? ESCAPE '\'
		OR last_name LIKE ? ESCAPE '\'
	)`

func (r *usersRepo) SearchUsers(ctx context.Context, keyword string, limit, offset int) ([]domain.User, error) {
	pattern := "%" + escapeLike(keyword) + "%"

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+searchPredicate+`
		ORDER BY id
		LIMIT ? OFFSET ?;
	`, pattern, pattern, pattern, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CountSearchUsers(ctx context.Context, keyword string) (int64, error) {
	pattern := "%" + escapeLike(keyword) + "%"

	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM users
		WHERE `+searchPredicate+`;
	`, pattern, pattern, pattern).Scan(&count)
	return count, err
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID, secret string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET mfa_secret = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?;
	`, secret, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET mfa_enabled = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?;
	`, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET mfa_secret = NULL, mfa_enabled = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?;
	`, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

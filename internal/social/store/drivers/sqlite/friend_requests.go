package sqlite

import (
	"context"
	"time"

	"github.com/socialcore/socialcore/internal/social/domain"
)

type friendRequestsRepo struct {
	db dbtx
}

const friendRequestColumns = `id, from_user, to_user, status, created_at, updated_at`

func scanFriendRequest(row rowScanner) (domain.FriendRequest, error) {
	var fr domain.FriendRequest
	err := row.Scan(&fr.ID, &fr.FromUser, &fr.ToUser, &fr.Status,
		&fr.CreatedAt, &fr.UpdatedAt)
	return fr, err
}

func (r *friendRequestsRepo) CreateFriendRequest(ctx context.Context, fr domain.FriendRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO friend_requests (
			id, from_user, to_user, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?);
	`, fr.ID, fr.FromUser, fr.ToUser, fr.Status, fr.CreatedAt, fr.UpdatedAt)
	return mapConstraint(err)
}

func (r *friendRequestsRepo) GetPendingByID(ctx context.Context, id string) (domain.FriendRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+friendRequestColumns+`
		FROM friend_requests
		WHERE id = ? AND status = 'pending';
	`, id)

	fr, err := scanFriendRequest(row)
	if err != nil {
		return domain.FriendRequest{}, mapNotFound(err)
	}
	return fr, nil
}

func (r *friendRequestsRepo) HasPendingBetween(ctx context.Context, fromUser, toUser string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM friend_requests
			WHERE from_user = ? AND to_user = ? AND status = 'pending'
		);
	`, fromUser, toUser).Scan(&exists)
	return exists, err
}

func (r *friendRequestsRepo) CountSentSince(ctx context.Context, fromUser string, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM friend_requests
		WHERE from_user = ? AND created_at >= ?;
	`, fromUser, since).Scan(&count)
	return count, err
}

func (r *friendRequestsRepo) ResolveIfPending(ctx context.Context, id string, status domain.FriendRequestStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE friend_requests
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending';
	`, status, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *friendRequestsRepo) ListAcceptedInvolving(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+friendRequestColumns+`
		FROM friend_requests
		WHERE status = 'accepted' AND (from_user = ? OR to_user = ?)
		ORDER BY created_at, id;
	`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FriendRequest
	for rows.Next() {
		fr, err := scanFriendRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

func (r *friendRequestsRepo) ListPendingFor(ctx context.Context, userID string) ([]domain.FriendRequestDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			fr.id, fr.from_user, fr.to_user, fr.status, fr.created_at, fr.updated_at,
			fu.id, fu.email, fu.first_name, fu.last_name,
			tu.id, tu.email, tu.first_name, tu.last_name
		FROM friend_requests AS fr
		JOIN users AS fu ON fu.id = fr.from_user
		JOIN users AS tu ON tu.id = fr.to_user
		WHERE fr.to_user = ? AND fr.status = 'pending'
		ORDER BY fr.created_at, fr.id;
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FriendRequestDetail
	for rows.Next() {
		var d domain.FriendRequestDetail
		err := rows.Scan(
			&d.ID, &d.FromUser, &d.ToUser, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.From.ID, &d.From.Email, &d.From.FirstName, &d.From.LastName,
			&d.To.ID, &d.To.Email, &d.To.FirstName, &d.To.LastName,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

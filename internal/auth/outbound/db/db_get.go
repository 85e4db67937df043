package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
)

func (s *DB) GetUserByPhone(ctx context.Context, phone string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByPhone")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, name, email, phone, created_at
		FROM users
		WHERE phone = $1
	`

	var user entity.User
	err = s.conn.QueryRow(ctx, query, phone).
		Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

func (s *DB) GetUserByEmailOrPhone(ctx context.Context, email, phone string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmailOrPhone")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, name, email, phone, created_at
		FROM users
		WHERE email = $1 OR phone = $2
		LIMIT 1
	`

	var user entity.User
	err = s.conn.QueryRow(ctx, query, email, phone).
		Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

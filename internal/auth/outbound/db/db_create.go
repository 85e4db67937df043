package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
)

func (s *DB) CreateUser(ctx context.Context, user entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO users (id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = s.conn.Exec(ctx, query, user.ID, user.Name, user.Email, user.Phone, user.CreatedAt)
	return s.mapError(err)
}

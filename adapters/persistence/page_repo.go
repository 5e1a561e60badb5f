package persistence

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/personal-card/internal/domain/page"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/logger"
)

type postgresPageRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPageRepo(db *pgxpool.Pool, logger logger.Logger) page.Repository {
	return &postgresPageRepo{db: db, logger: logger}
}

var pageColumns = []string{"id", "user_id", "profile_id", "title", "created_at"}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

func scanPage(row pgx.Row) (*page.Page, error) {
	p := &page.Page{}
	err := row.Scan(&p.ID, &p.UserID, &p.ProfileID, &p.Title, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, page.ErrPageNotFound
		}
		return nil, apperror.NewInternal("failed to scan page row", err)
	}
	return p, nil
}

func (r *postgresPageRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*page.Page, error) {
	query, args, err := psql.Select(pageColumns...).
		From("pages").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list pages query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to list pages", err)
	}
	defer rows.Close()

	pages := make([]*page.Page, 0)
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("failed to iterate pages", err)
	}
	return pages, nil
}

func (r *postgresPageRepo) FindByID(ctx context.Context, id uuid.UUID) (*page.Page, error) {
	query, args, err := psql.Select(pageColumns...).
		From("pages").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find page query", err)
	}
	return scanPage(r.db.QueryRow(ctx, query, args...))
}

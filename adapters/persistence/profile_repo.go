package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{
	"id", "user_id",
	"full_name", "position", "organization", "bio",
	"profile_picture_url", "profile_picture_object", "picture_thumbnail_url",
	"phone", "email", "whatsapp", "telegram",
	"linkedin", "tiktok", "twitter", "facebook", "youtube", "website",
	"skills", "interests", "experiences", "education",
	"created_at",
}

func scanProfile(row pgx.Row) (*profile.Record, error) {
	p := &profile.Record{}
	var experiencesBytes, educationBytes []byte

	err := row.Scan(
		&p.ID, &p.UserID,
		&p.FullName, &p.Position, &p.Organization, &p.Bio,
		&p.PictureURL, &p.PictureObject, &p.PictureThumbnailURL,
		&p.Phone, &p.Email, &p.WhatsApp, &p.Telegram,
		&p.LinkedIn, &p.TikTok, &p.Twitter, &p.Facebook, &p.YouTube, &p.Website,
		&p.Skills, &p.Interests, &experiencesBytes, &educationBytes,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal("failed to scan profile row", err)
	}

	// kept raw; entries are shape-checked on read by profile.Deserialize
	p.Experiences = json.RawMessage(experiencesBytes)
	p.Education = json.RawMessage(educationBytes)
	return p, nil
}

// jsonArrayColumn keeps the column valid JSON so the insert never fails on it.
func jsonArrayColumn(raw json.RawMessage) []byte {
	if len(raw) == 0 || !json.Valid(raw) {
		return []byte("[]")
	}
	return raw
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Insert writes the profile and its dashboard page in one transaction.
func (r *postgresProfileRepo) Insert(ctx context.Context, p *profile.Record) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PageID == uuid.Nil {
		p.PageID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("Failed to rollback profile insert", zap.Error(err))
		}
	}()

	query, args, err := psql.Insert("profiles").
		Columns(profileColumns[:len(profileColumns)-1]...).
		Values(
			p.ID, p.UserID,
			p.FullName, p.Position, p.Organization, p.Bio,
			p.PictureURL, p.PictureObject, p.PictureThumbnailURL,
			p.Phone, p.Email, p.WhatsApp, p.Telegram,
			p.LinkedIn, p.TikTok, p.Twitter, p.Facebook, p.YouTube, p.Website,
			nonNilStrings(p.Skills), nonNilStrings(p.Interests),
			jsonArrayColumn(p.Experiences), jsonArrayColumn(p.Education),
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert profile query", err)
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&p.CreatedAt); err != nil {
		return apperror.NewInternal("failed to insert profile", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO pages (id, user_id, profile_id, title, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.PageID, p.UserID, p.ID, p.PageTitle(), p.CreatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to insert page", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit profile insert", err)
	}
	return nil
}

func (r *postgresProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*profile.Record, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find profile query", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if n := profile.Malformed(p); n > 0 {
		r.logger.Warn("Profile has malformed list entries", zap.String("profile_id", id.String()), zap.Int("dropped", n))
	}
	return p, nil
}

func (r *postgresProfileRepo) SetThumbnail(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.db.Exec(ctx, `UPDATE profiles SET picture_thumbnail_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return apperror.NewInternal("failed to update profile thumbnail", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

// Delete removes the owner's profile; its page goes with it through the foreign key.
func (r *postgresProfileRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*profile.Record, error) {
	query, args, err := psql.Delete("profiles").
		Where(sq.Eq{"id": id, "user_id": ownerID}).
		Suffix("RETURNING " + joinColumns(profileColumns)).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build delete profile query", err)
	}
	return scanProfile(r.db.QueryRow(ctx, query, args...))
}

package wizard

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/application/service"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/internal/domain/wizard"
	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
)

var tracer = otel.Tracer("wizard_usecase")

// Notifier is told about every successfully created profile.
type Notifier interface {
	ProfileCreated(ctx context.Context, r *profile.Record) error
}

// Navigator takes the user away from a finished wizard. It receives the session already in
// PhaseSubmitted.
type Navigator interface {
	Leave(ctx context.Context, s *wizard.Session) error
}

type Dependencies struct {
	Store     service.ObjectStore
	Profiles  profile.Repository
	Notifier  Notifier
	Navigator Navigator
	Logger    logger.Logger
	// PictureFolder is the object store folder for uploaded pictures.
	PictureFolder string
}

// Controller drives one wizard session: step navigation, draft merges and submission.
// It mutates the session it was built with; persisting it is the caller's job.
type Controller struct {
	identity auth.Identity
	session  *wizard.Session
	deps     Dependencies
	newID    func() uuid.UUID
}

func NewController(identity auth.Identity, session *wizard.Session, deps Dependencies) *Controller {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if deps.PictureFolder == "" {
		deps.PictureFolder = "profile-pictures"
	}
	session.Normalize()
	return &Controller{
		identity: identity,
		session:  session,
		deps:     deps,
		newID:    uuid.New,
	}
}

func (c *Controller) Session() *wizard.Session { return c.session }
func (c *Controller) Step() wizard.Step         { return c.session.Step }
func (c *Controller) Phase() wizard.Phase       { return c.session.Phase }
func (c *Controller) Draft() profile.Draft      { return c.session.Draft }
func (c *Controller) Notice() string            { return c.session.Notice }

func (c *Controller) Advance() error {
	return c.edit(func(s *wizard.Session) { s.Step = s.Step.Next() })
}

func (c *Controller) Retreat() error {
	return c.edit(func(s *wizard.Session) { s.Step = s.Step.Prev() })
}

// Skip moves on without requiring anything; every field is optional.
func (c *Controller) Skip() error {
	return c.Advance()
}

func (c *Controller) MergePartial(p profile.Patch) error {
	return c.edit(func(s *wizard.Session) { s.Draft = s.Draft.Merge(p) })
}

// edit applies fn to a session that is still open. Any edit acknowledges a previous failure.
func (c *Controller) edit(fn func(*wizard.Session)) error {
	if c.session.Phase == wizard.PhaseSubmitted {
		return ErrWizardClosed
	}
	fn(c.session)
	c.session.Phase = wizard.PhaseEditing
	c.session.Notice = ""
	return nil
}

// Submit uploads a pending picture, then inserts the profile. On failure the draft is left as
// it was, the session is marked failed at the last step, and a retry is another Submit.
func (c *Controller) Submit(ctx context.Context) (*profile.Record, error) {
	if c.session.Phase == wizard.PhaseSubmitted {
		return nil, ErrWizardClosed
	}
	if !c.session.Step.IsLast() {
		return nil, ErrNotFinalStep
	}

	ctx, span := tracer.Start(ctx, "Submit")
	defer span.End()
	span.SetAttributes(attribute.String("session_id", c.session.ID.String()))

	l := c.deps.Logger.With(zap.String("session_id", c.session.ID.String()))

	c.session.Phase = wizard.PhaseSubmitting
	c.session.Notice = ""

	rec, stored, err := c.create(ctx, l)
	if err != nil {
		span.RecordError(err)
		c.session.Phase = wizard.PhaseFailed
		c.session.Step = wizard.LastStep
		c.session.Notice = FailureNotice
		l.Error("Failed to create profile", err)
		return nil, err
	}

	c.session.Draft.Picture = stored
	c.session.Phase = wizard.PhaseSubmitted
	span.SetAttributes(attribute.String("profile_id", rec.ID.String()))
	l.Info("Profile created", zap.String("profile_id", rec.ID.String()), zap.String("page_id", rec.PageID.String()))

	if c.deps.Notifier != nil {
		if err := c.deps.Notifier.ProfileCreated(ctx, rec); err != nil {
			l.Error("Failed to notify profile creation", err, zap.String("profile_id", rec.ID.String()))
		}
	}
	if c.deps.Navigator != nil {
		if err := c.deps.Navigator.Leave(ctx, c.session); err != nil {
			l.Error("Failed to leave wizard", err)
		}
	}
	return rec, nil
}

// create works on a copy of the draft so nothing leaks into the session on failure.
func (c *Controller) create(ctx context.Context, l logger.Logger) (*profile.Record, profile.Picture, error) {
	if c.identity.IsZero() {
		return nil, profile.Picture{}, &SubmitError{Kind: AuthMissing}
	}

	draft := c.session.Draft
	var object string
	if data, filename, ok := draft.Picture.Pending(); ok {
		object = c.objectName(data, filename)
		url, err := c.deps.Store.Upload(ctx, bytes.NewReader(data), object)
		if err != nil {
			return nil, profile.Picture{}, &SubmitError{Kind: UploadFailure, Err: err}
		}
		draft.Picture = profile.StoredPicture(url)
	}

	rec, err := profile.Serialize(draft, c.identity.UserID)
	if err != nil {
		return nil, profile.Picture{}, &SubmitError{Kind: InsertFailure, Err: err}
	}
	rec.PictureObject = object

	if err := c.deps.Profiles.Insert(ctx, rec); err != nil {
		if object != "" {
			if derr := c.deps.Store.Delete(ctx, object); derr != nil {
				l.Warn("Failed to remove orphaned picture", zap.String("object", object), zap.Error(derr))
			}
		}
		return nil, profile.Picture{}, &SubmitError{Kind: InsertFailure, Err: err}
	}
	return rec, draft.Picture, nil
}

// objectName is "<folder>/<uuid><ext>". The extension comes from the content when it sniffs
// as an image and from the original filename otherwise.
func (c *Controller) objectName(data []byte, filename string) string {
	ext := ""
	if mt := mimetype.Detect(data); strings.HasPrefix(mt.String(), "image/") {
		ext = mt.Extension()
	}
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	return path.Join(c.deps.PictureFolder, c.newID().String()+ext)
}

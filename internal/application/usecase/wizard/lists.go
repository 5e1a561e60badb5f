package wizard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/internal/domain/wizard"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/auth"
)

type ListName string

const (
	ListSkills      ListName = "skills"
	ListInterests   ListName = "interests"
	ListExperiences ListName = "experiences"
	ListEducation   ListName = "education"
)

type ListOp string

const (
	ListAdd    ListOp = "add"
	ListRemove ListOp = "remove"
	ListUpdate ListOp = "update"
)

// EditListInput is one edit of a professional list. Value is the tag text for tag lists and
// the new field value for updates; Field only applies to updates.
type EditListInput struct {
	Identity  auth.Identity
	SessionID uuid.UUID
	List      ListName
	Op        ListOp
	Index     int
	Field     string
	Value     string
}

// EditList computes the new list with the pure helpers and merges it back as a whole-list patch.
func (uc *WizardUseCase) EditList(ctx context.Context, in EditListInput) (*wizard.Session, error) {
	return uc.apply(ctx, in.Identity, in.SessionID, func(c *Controller) error {
		patch, err := listPatch(c.Draft(), in)
		if err != nil {
			return err
		}
		return c.MergePartial(patch)
	})
}

func listPatch(d profile.Draft, in EditListInput) (profile.Patch, error) {
	switch in.List {
	case ListSkills, ListInterests:
		list := d.Skills
		if in.List == ListInterests {
			list = d.Interests
		}
		switch in.Op {
		case ListAdd:
			list = profile.AddTag(list, in.Value)
		case ListRemove:
			list = profile.RemoveTag(list, in.Index)
		default:
			return profile.Patch{}, unsupported(in)
		}
		if in.List == ListInterests {
			return profile.Patch{Interests: &list}, nil
		}
		return profile.Patch{Skills: &list}, nil

	case ListExperiences:
		list := d.Experiences
		var err error
		switch in.Op {
		case ListAdd:
			list = profile.AppendExperience(list)
		case ListRemove:
			list = profile.RemoveExperience(list, in.Index)
		case ListUpdate:
			list, err = profile.UpdateExperience(list, in.Index, profile.ExperienceField(in.Field), in.Value)
		default:
			return profile.Patch{}, unsupported(in)
		}
		if err != nil {
			return profile.Patch{}, err
		}
		return profile.Patch{Experiences: &list}, nil

	case ListEducation:
		list := d.Education
		var err error
		switch in.Op {
		case ListAdd:
			list = profile.AppendEducation(list)
		case ListRemove:
			list = profile.RemoveEducation(list, in.Index)
		case ListUpdate:
			list, err = profile.UpdateEducation(list, in.Index, profile.EducationField(in.Field), in.Value)
		default:
			return profile.Patch{}, unsupported(in)
		}
		if err != nil {
			return profile.Patch{}, err
		}
		return profile.Patch{Education: &list}, nil
	}
	return profile.Patch{}, apperror.NewInvalidInput(fmt.Sprintf("unknown list %q", in.List), nil)
}

func unsupported(in EditListInput) error {
	return apperror.NewInvalidInput(fmt.Sprintf("%s does not support %q", in.List, in.Op), nil)
}

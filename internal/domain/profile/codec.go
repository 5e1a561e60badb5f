package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

var ErrPictureNotStored = errors.New("picture has not been uploaded yet")

// Serialize converts a draft into the store's row shape. The picture must already be stored
// or unset; id and created_at are left for the store to fill.
func Serialize(d Draft, owner uuid.UUID) (*Record, error) {
	if d.Picture.Kind() == PicturePending {
		return nil, ErrPictureNotStored
	}
	pictureURL, _ := d.Picture.URL()

	experiences, err := json.Marshal(nonNil(d.Experiences))
	if err != nil {
		return nil, fmt.Errorf("marshal experiences: %w", err)
	}
	education, err := json.Marshal(nonNil(d.Education))
	if err != nil {
		return nil, fmt.Errorf("marshal education: %w", err)
	}

	return &Record{
		UserID:       owner,
		FullName:     d.FullName,
		Position:     d.Position,
		Organization: d.Organization,
		Bio:          d.Bio,
		PictureURL:   pictureURL,
		Phone:        d.Phone,
		Email:        d.Email,
		WhatsApp:     d.WhatsApp,
		Telegram:     d.Telegram,
		LinkedIn:     d.LinkedIn,
		TikTok:       d.TikTok,
		Twitter:      d.Twitter,
		Facebook:     d.Facebook,
		YouTube:      d.YouTube,
		Website:      d.Website,
		Skills:       slices.Clone(nonNil(d.Skills)),
		Interests:    slices.Clone(nonNil(d.Interests)),
		Experiences:  experiences,
		Education:    education,
	}, nil
}

// Deserialize never fails: list entries that do not decode as the expected shape are dropped.
func Deserialize(r *Record) Draft {
	experiences, _ := DecodeExperienceList(r.Experiences)
	education, _ := DecodeEducationList(r.Education)

	return Draft{
		FullName:     r.FullName,
		Position:     r.Position,
		Organization: r.Organization,
		Bio:          r.Bio,
		Picture:      StoredPicture(r.PictureURL),
		Phone:        r.Phone,
		Email:        r.Email,
		WhatsApp:     r.WhatsApp,
		Telegram:     r.Telegram,
		LinkedIn:     r.LinkedIn,
		TikTok:       r.TikTok,
		Twitter:      r.Twitter,
		Facebook:     r.Facebook,
		YouTube:      r.YouTube,
		Website:      r.Website,
		Skills:       slices.Clone(nonNil(r.Skills)),
		Interests:    slices.Clone(nonNil(r.Interests)),
		Experiences:  experiences,
		Education:    education,
	}
}

// Malformed counts the list entries Deserialize would drop from r.
func Malformed(r *Record) int {
	_, droppedExp := DecodeExperienceList(r.Experiences)
	_, droppedEdu := DecodeEducationList(r.Education)
	return droppedExp + droppedEdu
}

type field[T any] struct {
	key      string
	required bool
	set      func(*T, string)
}

var experienceShape = []field[Experience]{
	{"title", true, func(e *Experience, v string) { e.Title = v }},
	{"company", true, func(e *Experience, v string) { e.Company = v }},
	{"startDate", false, func(e *Experience, v string) { e.StartDate = v }},
	{"endDate", false, func(e *Experience, v string) { e.EndDate = v }},
	{"description", false, func(e *Experience, v string) { e.Description = v }},
}

var educationShape = []field[Education]{
	{"degree", true, func(e *Education, v string) { e.Degree = v }},
	{"institution", true, func(e *Education, v string) { e.Institution = v }},
	{"year", false, func(e *Education, v string) { e.Year = v }},
}

// DecodeExperience accepts a JSON object whose known keys hold strings and that carries at
// least title and company. Anything else is rejected.
func DecodeExperience(raw []byte) (Experience, bool) {
	return decodeShape(raw, experienceShape)
}

// DecodeEducation accepts a JSON object whose known keys hold strings and that carries at
// least degree and institution.
func DecodeEducation(raw []byte) (Education, bool) {
	return decodeShape(raw, educationShape)
}

func DecodeExperienceList(raw []byte) ([]Experience, int) {
	return decodeList(raw, DecodeExperience)
}

func DecodeEducationList(raw []byte) ([]Education, int) {
	return decodeList(raw, DecodeEducation)
}

func decodeShape[T any](raw []byte, shape []field[T]) (T, bool) {
	var out T
	if !gjson.ValidBytes(raw) {
		return out, false
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return out, false
	}
	values := obj.Map()
	for _, f := range shape {
		v, ok := values[f.key]
		if !ok {
			if f.required {
				return out, false
			}
			continue
		}
		if v.Type != gjson.String {
			return out, false
		}
		f.set(&out, v.Str)
	}
	return out, true
}

// decodeList returns the accepted entries in order and how many were dropped. A column that
// is missing or not an array decodes to an empty list.
func decodeList[T any](raw []byte, decode func([]byte) (T, bool)) ([]T, int) {
	out := []T{}
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return out, 0
	}
	arr := gjson.ParseBytes(raw)
	if !arr.IsArray() {
		return out, 0
	}
	dropped := 0
	arr.ForEach(func(_, entry gjson.Result) bool {
		if v, ok := decode([]byte(entry.Raw)); ok {
			out = append(out, v)
		} else {
			dropped++
		}
		return true
	})
	return out, dropped
}

package profile

import (
	"errors"
	"slices"
	"strings"
)

var ErrUnknownField = errors.New("unknown field")

type ExperienceField string

const (
	ExperienceTitle       ExperienceField = "title"
	ExperienceCompany     ExperienceField = "company"
	ExperienceStartDate   ExperienceField = "startDate"
	ExperienceEndDate     ExperienceField = "endDate"
	ExperienceDescription ExperienceField = "description"
)

type EducationField string

const (
	EducationDegree      EducationField = "degree"
	EducationInstitution EducationField = "institution"
	EducationYear        EducationField = "year"
)

// AddTag appends the trimmed value. Blank values leave the list as is.
func AddTag(list []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return list
	}
	return append(slices.Clip(list), value)
}

func RemoveTag(list []string, i int) []string {
	return removeAt(list, i)
}

// AppendExperience adds an empty entry at the tail, the way the form offers a blank row.
func AppendExperience(list []Experience) []Experience {
	return append(slices.Clip(list), Experience{})
}

func RemoveExperience(list []Experience, i int) []Experience {
	return removeAt(list, i)
}

func UpdateExperience(list []Experience, i int, field ExperienceField, value string) ([]Experience, error) {
	if i < 0 || i >= len(list) {
		return list, nil
	}
	out := slices.Clone(list)
	e := &out[i]
	switch field {
	case ExperienceTitle:
		e.Title = value
	case ExperienceCompany:
		e.Company = value
	case ExperienceStartDate:
		e.StartDate = value
	case ExperienceEndDate:
		e.EndDate = value
	case ExperienceDescription:
		e.Description = value
	default:
		return list, ErrUnknownField
	}
	return out, nil
}

func AppendEducation(list []Education) []Education {
	return append(slices.Clip(list), Education{})
}

func RemoveEducation(list []Education, i int) []Education {
	return removeAt(list, i)
}

func UpdateEducation(list []Education, i int, field EducationField, value string) ([]Education, error) {
	if i < 0 || i >= len(list) {
		return list, nil
	}
	out := slices.Clone(list)
	e := &out[i]
	switch field {
	case EducationDegree:
		e.Degree = value
	case EducationInstitution:
		e.Institution = value
	case EducationYear:
		e.Year = value
	default:
		return list, ErrUnknownField
	}
	return out, nil
}

func removeAt[T any](list []T, i int) []T {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

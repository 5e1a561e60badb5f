package profile

// Experience is one entry of the professional history, in display order.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Draft is a profile being authored. Scalars are never absent (empty string) and lists are
// never nil, so merges and serialization are total.
type Draft struct {
	// Personal
	FullName     string  `json:"full_name"`
	Position     string  `json:"position"`
	Organization string  `json:"organization"`
	Bio          string  `json:"bio"`
	Picture      Picture `json:"picture"`

	// Contact
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Telegram string `json:"telegram"`

	// Social
	LinkedIn string `json:"linkedin"`
	TikTok   string `json:"tiktok"`
	Twitter  string `json:"twitter"`
	Facebook string `json:"facebook"`
	YouTube  string `json:"youtube"`
	Website  string `json:"website"`

	// Professional
	Skills      []string     `json:"skills"`
	Interests   []string     `json:"interests"`
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`
}

func NewDraft() Draft {
	return Draft{
		Skills:      []string{},
		Interests:   []string{},
		Experiences: []Experience{},
		Education:   []Education{},
	}
}

// Normalize restores the non-nil list invariant, e.g. after decoding a stored draft.
func (d Draft) Normalize() Draft {
	d.Skills = nonNil(d.Skills)
	d.Interests = nonNil(d.Interests)
	d.Experiences = nonNil(d.Experiences)
	d.Education = nonNil(d.Education)
	return d
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

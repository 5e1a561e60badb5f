package profile

// Patch is a partial draft. A nil field means "leave as is"; a set field replaces the whole
// value, lists included. The picture is staged separately and never decoded from JSON.
type Patch struct {
	FullName     *string  `json:"full_name,omitempty"`
	Position     *string  `json:"position,omitempty"`
	Organization *string  `json:"organization,omitempty"`
	Bio          *string  `json:"bio,omitempty"`
	Picture      *Picture `json:"-"`

	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	WhatsApp *string `json:"whatsapp,omitempty"`
	Telegram *string `json:"telegram,omitempty"`

	LinkedIn *string `json:"linkedin,omitempty"`
	TikTok   *string `json:"tiktok,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	Facebook *string `json:"facebook,omitempty"`
	YouTube  *string `json:"youtube,omitempty"`
	Website  *string `json:"website,omitempty"`

	Skills      *[]string     `json:"skills,omitempty"`
	Interests   *[]string     `json:"interests,omitempty"`
	Experiences *[]Experience `json:"experiences,omitempty"`
	Education   *[]Education  `json:"education,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Merge returns a copy of d with exactly the keys set in p replaced. The shallow copy keeps
// every untouched list pointing at the same backing array.
func (d Draft) Merge(p Patch) Draft {
	setString(&d.FullName, p.FullName)
	setString(&d.Position, p.Position)
	setString(&d.Organization, p.Organization)
	setString(&d.Bio, p.Bio)
	if p.Picture != nil {
		d.Picture = *p.Picture
	}

	setString(&d.Phone, p.Phone)
	setString(&d.Email, p.Email)
	setString(&d.WhatsApp, p.WhatsApp)
	setString(&d.Telegram, p.Telegram)

	setString(&d.LinkedIn, p.LinkedIn)
	setString(&d.TikTok, p.TikTok)
	setString(&d.Twitter, p.Twitter)
	setString(&d.Facebook, p.Facebook)
	setString(&d.YouTube, p.YouTube)
	setString(&d.Website, p.Website)

	setList(&d.Skills, p.Skills)
	setList(&d.Interests, p.Interests)
	setList(&d.Experiences, p.Experiences)
	setList(&d.Education, p.Education)
	return d
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setList[T any](dst *[]T, v *[]T) {
	if v != nil {
		*dst = nonNil(*v)
	}
}

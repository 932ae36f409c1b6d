package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks the author's writable fields.
func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.RuneLength(1, MaxNameRunes)),
		validation.Field(&a.Slug, validation.Required, validation.RuneLength(1, MaxSlugLen)),
		validation.Field(&a.Photo, validation.RuneLength(0, 255)),
		validation.Field(&a.Views, validation.Min(int64(0))),
	)
}

// Validate checks the theme's writable fields.
func (th Theme) Validate() error {
	return validation.ValidateStruct(&th,
		validation.Field(&th.Title, validation.Required, validation.RuneLength(1, MaxThemeTitleRunes)),
		validation.Field(&th.Slug, validation.Required, validation.RuneLength(1, MaxSlugLen)),
		validation.Field(&th.Views, validation.Min(int64(0))),
	)
}

// Validate checks the poem's writable fields.
func (p Poem) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.RuneLength(1, MaxTitleRunes)),
		validation.Field(&p.Slug, validation.Required, validation.RuneLength(1, MaxSlugLen)),
		validation.Field(&p.AuthorID, validation.Required),
		// PoemTag is a driver.Valuer, so the rule sees its string value (nil when empty).
		validation.Field(&p.Tag, validation.In(knownTagValues()...).Error("must be one of the known tags")),
		validation.Field(&p.Views, validation.Min(int64(0))),
		validation.Field(&p.Likes, validation.Min(int64(0))),
	)
}

func knownTagValues() []any {
	out := make([]any, 0, len(tagLabels))
	for t := range tagLabels {
		out = append(out, string(t))
	}
	return out
}

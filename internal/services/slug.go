package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/search"
)

// maxSlugAttempts bounds the numeric suffixes tried for a derived slug.
const maxSlugAttempts = 50

// insertWithSlug calls insert with slug, or with a slug derived from source
// when slug is blank. Derived slugs that are taken get -2, -3, ... appended;
// an explicit slug that is taken yields ErrDuplicateSlug.
func insertWithSlug(slug, source, fallback string, insert func(slug string) error) error {
	explicit := strings.TrimSpace(slug) != ""
	base := search.Slugify(slug)
	if !explicit {
		base = search.Slugify(source)
	}
	if base == "" {
		base = fallback
	}
	// leave room for a numeric suffix
	if rs := []rune(base); len(rs) > domain.MaxSlugLen-8 {
		base = strings.TrimRight(string(rs[:domain.MaxSlugLen-8]), "-")
	}

	candidate := base
	for i := 2; ; i++ {
		err := insert(candidate)
		if !errors.Is(err, repo.ErrDuplicate) {
			return err
		}
		if explicit || i > maxSlugAttempts {
			return ErrDuplicateSlug
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

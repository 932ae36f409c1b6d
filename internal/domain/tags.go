package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// PoemTag is the legacy, fixed set of free-text themes carried by imported
// poems. New content is grouped through Theme; the tag is kept so the
// imported catalogue stays browsable by its original labels.
type PoemTag string

// Known tags. The empty tag means "untagged".
const (
	TagLove       PoemTag = "love"
	TagHomeland   PoemTag = "homeland"
	TagAdiga      PoemTag = "adiga"
	TagLife       PoemTag = "life"
	TagFriendship PoemTag = "friendship"
	TagNature     PoemTag = "nature"
	TagKid        PoemTag = "kid"
	TagAnimal     PoemTag = "animal"
	TagSeasons    PoemTag = "seasons"
	TagWar        PoemTag = "war"
	TagParents    PoemTag = "parents"
	TagHumor      PoemTag = "humor"
)

// tagLabels holds the Kabardian display label for every known tag.
var tagLabels = map[PoemTag]string{
	TagLove:       "Лъагъуныгъэ",
	TagHomeland:   "Хэку",
	TagAdiga:      "Адыгэ",
	TagLife:       "Гъащӏэ",
	TagFriendship: "Ныбжьэгъугъэ",
	TagNature:     "Щӏыуэпс",
	TagKid:        "Сабий",
	TagAnimal:     "Псэущхьэ",
	TagSeasons:    "Лъэхъэнэ",
	TagWar:        "Зауэ",
	TagParents:    "Адэ-Анэ",
	TagHumor:      "Гушыӏэ",
}

// ParsePoemTag normalises s and reports whether it names a known tag.
// The empty string parses to the empty tag.
func ParsePoemTag(s string) (PoemTag, error) {
	t := PoemTag(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t.Known() {
		return t, nil
	}
	return "", fmt.Errorf("unknown poem tag %q", s)
}

// Known reports whether t is one of the fixed tags.
func (t PoemTag) Known() bool {
	_, ok := tagLabels[t]
	return ok
}

// Label returns the display label, or "" for unknown or empty tags.
func (t PoemTag) Label() string { return tagLabels[t] }

// Value implements driver.Valuer; the empty tag is stored as NULL.
func (t PoemTag) Value() (driver.Value, error) {
	if t == "" {
		return nil, nil
	}
	return string(t), nil
}

// Scan implements sql.Scanner.
func (t *PoemTag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = PoemTag(v)
	case []byte:
		*t = PoemTag(v)
	default:
		return fmt.Errorf("poem tag: unsupported type %T", src)
	}
	return nil
}

package domain

// AuthorWithCount is an Author together with the number of poems they wrote.
type AuthorWithCount struct {
	Author     `gorm:"embedded"`
	PoemsCount int64 `json:"poems_count"`
}

// ThemeWithCount is a Theme together with the number of poems filed under it.
type ThemeWithCount struct {
	Theme      `gorm:"embedded"`
	PoemsCount int64 `json:"poems_count"`
}

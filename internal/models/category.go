package models

// Category links a level to a question-bank category.
type Category struct {
	ID                   int64 `json:"id"`
	LevelID              int64 `json:"level"`
	BankCategoryID       int64 `json:"mdl_category"`
	IncludeSubcategories bool  `json:"subcategories"`
}

package models

import "time"

type Inquisition struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title string `gorm:"not null"`

	Questions []Question
}

type Question struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	InquisitionID *uint `gorm:"index"`
	BodyText      string
	Enabled       bool `gorm:"default:true"`

	Options  []QuestionOption
	Bindings []QuestionImageBinding
}

type Image struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Filename string `gorm:"not null"`
	Width    int
	Height   int
}

// QuestionImageBinding attaches an image to a question. DisplayOrder 0 on
// every binding of a question means no explicit order was ever saved.
type QuestionImageBinding struct {
	QuestionID   uint `gorm:"primaryKey;autoIncrement:false"`
	ImageID      uint `gorm:"primaryKey;autoIncrement:false"`
	DisplayOrder int  `gorm:"not null;default:0"`

	Image Image
}

type QuestionOption struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	QuestionID   uint   `gorm:"not null;index:idx_option_question_order"`
	Title        string `gorm:"not null"`
	DisplayOrder int    `gorm:"not null;default:0;index:idx_option_question_order"`
}

// All lists every model AutoMigrate has to know about, parents first.
func All() []any {
	return []any{
		&Inquisition{},
		&Question{},
		&Image{},
		&QuestionImageBinding{},
		&QuestionOption{},
	}
}

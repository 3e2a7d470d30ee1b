package models

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Nome      string    `json:"nome" gorm:"size:50;not null" validate:"required,min=2,max=50,alphaunicode"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex" validate:"required,email,max=255"`
	Idade     int       `json:"idade" gorm:"not null;check:chk_users_idade,idade >= 1" validate:"min=1"`
	Senha     string    `json:"-" gorm:"size:100;not null" validate:"required,min=6,max=100"` // o "-" impede que o hash saia no JSON
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

var (
	modelValidator     *validator.Validate
	modelValidatorOnce sync.Once
)

func userValidator() *validator.Validate {
	modelValidatorOnce.Do(func() {
		modelValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return modelValidator
}

// Validate aplica as restrições de coluna independentemente da validação da requisição.
func (u *User) Validate() error {
	return userValidator().Struct(u)
}

// BeforeSave roda antes de todo INSERT/UPDATE feito com o modelo.
func (u *User) BeforeSave(tx *gorm.DB) error {
	return u.Validate()
}

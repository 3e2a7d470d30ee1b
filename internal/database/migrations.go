package database

import (
	"github.com/AgusMolinaCode/usuarios-api/internal/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migrate sincroniza o esquema sem apagar tabelas nem colunas existentes.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("sincronizando esquema do banco de dados")

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return errors.Wrap(err, "falha ao migrar tabela users")
	}

	return nil
}

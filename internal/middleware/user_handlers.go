package middleware

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/AgusMolinaCode/usuarios-api/internal/models"
	"github.com/AgusMolinaCode/usuarios-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// PasswordService é a parte do serviço de credenciais usada pelos handlers.
type PasswordService interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hashed string) bool
	IssueToken(user *models.User) (string, error)
}

type UserHandlers struct {
	store repository.UserStore
	creds PasswordService
}

func NewUserHandlers(store repository.UserStore, creds PasswordService) *UserHandlers {
	return &UserHandlers{
		store: store,
		creds: creds,
	}
}

func respondValidation(c *gin.Context, errs []FieldError, err error) {
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// respondStoreError traduz erros de persistência; o detalhe fica só no log.
func respondStoreError(c *gin.Context, err error, generic string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
	case errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado"})
	case errors.As(err, &verrs):
		errs := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			errs = append(errs, fieldError(strings.ToLower(fe.Field()), fe.Value(), "Valor inválido"))
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Msg(generic)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Create valida, gera o hash da senha e grava o usuário.
func (h *UserHandlers) Create(c *gin.Context) {
	in, errs, err := bindUserInput(c, true)
	if err != nil || len(errs) > 0 {
		respondValidation(c, errs, err)
		return
	}

	hashed, err := h.creds.HashPassword(in.Senha)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("falha ao gerar hash da senha")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar usuário"})
		return
	}

	user := &models.User{
		Nome:  in.Nome,
		Email: in.Email,
		Idade: in.Idade,
		Senha: hashed,
	}
	if err := h.store.Insert(c.Request.Context(), user); err != nil {
		respondStoreError(c, err, "Erro ao criar usuário")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login não distingue email inexistente de senha errada.
func (h *UserHandlers) Login(c *gin.Context) {
	var login struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := c.ShouldBindJSON(&login); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMalformedBody.Error()})
		return
	}

	email := strings.TrimSpace(login.Email)
	if email == "" || login.Senha == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email e senha são obrigatórios"})
		return
	}
	if normalized, ok := normalizeEmail(email); ok {
		email = normalized
	}

	user, err := h.store.FindByEmail(c.Request.Context(), email)
	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
		return
	}
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("erro no login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no login"})
		return
	}

	if !h.creds.VerifyPassword(login.Senha, user.Senha) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
		return
	}

	token, err := h.creds.IssueToken(user)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("falha ao gerar token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *UserHandlers) List(c *gin.Context) {
	users, err := h.store.FindAll(c.Request.Context())
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("erro ao listar usuários")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar usuários"})
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

// Update altera nome, email e idade. A senha não pode ser trocada aqui.
func (h *UserHandlers) Update(c *gin.Context) {
	in, errs, err := bindUserInput(c, false)
	if err != nil || len(errs) > 0 {
		respondValidation(c, errs, err)
		return
	}

	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
		return
	}

	user, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Erro ao atualizar usuário")
		return
	}

	user.Nome = in.Nome
	user.Email = in.Email
	user.Idade = in.Idade

	if err := h.store.Update(c.Request.Context(), user); err != nil {
		respondStoreError(c, err, "Erro ao atualizar usuário")
		return
	}

	log.Ctx(c.Request.Context()).Info().
		Uint("user_id", user.ID).
		Uint("by", c.GetUint(ctxUserID)).
		Msg("usuário atualizado")
	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
		return
	}

	if _, err := h.store.FindByID(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Erro ao deletar usuário")
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Erro ao deletar usuário")
		return
	}

	log.Ctx(c.Request.Context()).Info().
		Uint("user_id", id).
		Uint("by", c.GetUint(ctxUserID)).
		Msg("usuário deletado")
	c.JSON(http.StatusOK, gin.H{"message": "Usuário deletado com sucesso"})
}

// Health verifica a conexão com o banco.
func (h *UserHandlers) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check falhou")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	msgNomeObrigatorio = "Nome é obrigatório"
	msgNomeFormato     = "Nome deve conter apenas letras (2 a 50 caracteres)"
	msgEmailInvalido   = "Email inválido"
	msgIdadeInvalida   = "Idade deve ser um número positivo"
	msgSenhaCurta      = "Senha deve ter no mínimo 6 caracteres"
	msgSenhaLonga      = "Senha deve ter no máximo 100 caracteres"
)

// FieldError segue o formato de erro por campo devolvido ao cliente.
type FieldError struct {
	Type     string      `json:"type"`
	Value    interface{} `json:"value"`
	Msg      string      `json:"msg"`
	Path     string      `json:"path"`
	Location string      `json:"location"`
}

func fieldError(path string, value interface{}, msg string) FieldError {
	return FieldError{Type: "field", Value: value, Msg: msg, Path: path, Location: "body"}
}

type userPayload struct {
	Nome  string          `json:"nome"`
	Email string          `json:"email"`
	Idade json.RawMessage `json:"idade"`
	Senha string          `json:"senha"`
}

// UserInput é o payload já saneado e validado.
type UserInput struct {
	Nome  string
	Email string
	Idade int
	Senha string
}

var errMalformedBody = errors.New("JSON inválido")

func engine() *validator.Validate {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v
	}
	return validator.New()
}

// bindUserInput decodifica, saneia e valida o corpo. A senha só é exigida na criação.
func bindUserInput(c *gin.Context, requirePassword bool) (*UserInput, []FieldError, error) {
	var p userPayload
	if err := c.ShouldBindJSON(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, errMalformedBody
	}

	v := engine()
	var errs []FieldError
	in := &UserInput{}

	in.Nome = escapeHTML(strings.TrimSpace(p.Nome))
	switch {
	case in.Nome == "":
		errs = append(errs, fieldError("nome", in.Nome, msgNomeObrigatorio))
	case v.Var(in.Nome, "min=2,max=50,alphaunicode") != nil:
		errs = append(errs, fieldError("nome", in.Nome, msgNomeFormato))
	}

	if v.Var(p.Email, "required,email,max=255") != nil {
		errs = append(errs, fieldError("email", p.Email, msgEmailInvalido))
	} else if normalized, ok := normalizeEmail(p.Email); ok {
		in.Email = normalized
	} else {
		errs = append(errs, fieldError("email", p.Email, msgEmailInvalido))
	}

	if idade, ok := parseIdade(p.Idade); ok {
		in.Idade = idade
	} else {
		errs = append(errs, fieldError("idade", rawValue(p.Idade), msgIdadeInvalida))
	}

	if requirePassword {
		switch n := utf8.RuneCountInString(p.Senha); {
		case n < 6:
			errs = append(errs, fieldError("senha", p.Senha, msgSenhaCurta))
		case n > 100:
			errs = append(errs, fieldError("senha", p.Senha, msgSenhaLonga))
		default:
			in.Senha = p.Senha
		}
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}
	return in, nil, nil
}

// parseIdade aceita número JSON ou string numérica, inteiro e >= 1.
func parseIdade(raw json.RawMessage) (int, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(str)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func rawValue(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// normalizeEmail deixa o endereço em forma canônica: minúsculas e sem os
// sub-endereços dos provedores conhecidos.
func normalizeEmail(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	local := strings.ToLower(email[:at])
	domain := strings.ToLower(email[at+1:])

	switch domain {
	case "gmail.com", "googlemail.com":
		local = strings.SplitN(local, "+", 2)[0]
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case "icloud.com", "me.com",
		"hotmail.com", "hotmail.com.br", "live.com", "outlook.com", "outlook.com.br", "msn.com":
		local = strings.SplitN(local, "+", 2)[0]
	case "yahoo.com", "yahoo.com.br", "ymail.com", "rocketmail.com":
		local = strings.SplitN(local, "-", 2)[0]
	case "yandex.ru", "yandex.com", "ya.ru":
		domain = "yandex.ru"
	}

	if local == "" {
		return "", false
	}
	return local + "@" + domain, true
}

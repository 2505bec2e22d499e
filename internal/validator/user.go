package validator

import (
	"regexp"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8

	UsernameInvalid  = "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_."
	UsernameTaken    = "Пользователь с таким именем уже существует."
	PasswordMismatch = "Введенные пароли не совпадают."
	PasswordTooShort = "Введённый пароль слишком короткий. Он должен содержать как минимум 8 символов."
	PasswordNumeric  = "Введённый пароль состоит только из цифр."
	BadCredentials   = "Пожалуйста, введите правильные имя пользователя и пароль. Оба поля могут быть чувствительны к регистру."
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	digitsOnly      = regexp.MustCompile(`^[0-9]+$`)
)

// CheckUsername returns a user-facing message for an unusable username, or "".
func CheckUsername(name string) string {
	if msg := CheckLength(name, MaxUsernameLength); msg != "" {
		return msg
	}
	if !usernamePattern.MatchString(name) {
		return UsernameInvalid
	}
	return ""
}

// CheckPassword returns a user-facing message for a weak password, or "".
func CheckPassword(password string) string {
	switch {
	case password == "":
		return Required
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return PasswordTooShort
	case digitsOnly.MatchString(password):
		return PasswordNumeric
	}
	return ""
}

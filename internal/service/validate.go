// validate.go — проверки входных данных, общие для сервисов.
package service

import (
	"net/mail"
	"strings"
)

// required проверяет, что значение не пустое после обрезки пробелов.
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validationError("поле %s обязательно", field)
	}
	return nil
}

// email проверяет адрес электронной почты.
func email(field, value string) error {
	if err := required(field, value); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return validationError("поле %s: некорректный адрес %q", field, value)
	}
	return nil
}

// firstError возвращает первую ненулевую ошибку.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

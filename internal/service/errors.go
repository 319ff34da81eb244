// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nicflores/user-manager-api/internal/repository"
)

var (
	// ErrNotFound — ресурс (или ресурс-владелец) не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт: ресурс уже существует или используется.
	ErrConflict = errors.New("конфликт")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrDatabase — ошибка хранилища.
	ErrDatabase = errors.New("ошибка базы данных")
	// ErrKeyGeneration — не удалось сгенерировать ключевую пару. Не повторяется.
	ErrKeyGeneration = errors.New("ошибка генерации ключей")
)

// fromRepo переводит ошибку репозитория в ошибку сервисного слоя.
// Для NotFound и Conflict сохраняется уточнение репозитория ("клиент 5").
func fromRepo(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, detail(err, repository.ErrNotFound))
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", ErrConflict, detail(err, repository.ErrConflict))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrDatabase, op, err)
	}
}

// detail отрезает от текста ошибки префикс sentinel-ошибки.
func detail(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}

// validationError формирует ErrValidation с описанием.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

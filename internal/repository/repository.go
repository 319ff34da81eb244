// Пакет repository — слой доступа к данным PostgreSQL.
// Все запросы — чистый SQL через pgx, без ORM. Значения фильтров
// передаются только как параметры ($n), в текст запроса не подставляются.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись (или запись-владелец) не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности или зависимые записи мешают удалению.
	ErrConflict = errors.New("конфликт — запись уже существует или используется")
	// ErrDatabase — ошибка PostgreSQL; исходная ошибка доступна через errors.Unwrap.
	ErrDatabase = errors.New("ошибка базы данных")
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
// Begin у pgx.Tx создаёт savepoint.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// runInTx выполняет fn внутри транзакции.
// При ошибке fn — транзакция откатывается.
// При успехе — коммитится.
func runInTx(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return dbError("ошибка начала транзакции", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после коммита — no-op

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError("ошибка фиксации транзакции", err)
	}
	return nil
}

// dbError оборачивает ошибку pgx в ErrDatabase.
func dbError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDatabase, msg, err)
}

// exists проверяет наличие строки с id в таблице.
// table — только константы из кода пакета.
func exists(ctx context.Context, db DBTX, table string, id int64) (bool, error) {
	var ok bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, dbError("ошибка проверки существования в "+table, err)
	}
	return ok, nil
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505" // unique_violation
}

// isForeignKeyViolation проверяет нарушение внешнего ключа.
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503" // foreign_key_violation
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// filter накапливает условия WHERE с нумерацией параметров.
type filter struct {
	conditions []string
	args       []any
}

// add добавляет условие; format содержит один %d для номера параметра.
func (f *filter) add(format string, arg any) {
	f.args = append(f.args, arg)
	f.conditions = append(f.conditions, fmt.Sprintf(format, len(f.args)))
}

// where возвращает "WHERE a AND b" или пустую строку.
func (f *filter) where() string {
	if len(f.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.conditions, " AND ")
}

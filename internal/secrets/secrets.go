// Пакет secrets — шифрование секретов перед записью в БД (fernet).
// Шифруются приватные SFTP-ключи, пароли вендоров, SSH-ключи вендоров и их пароли.
package secrets

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Sealer шифрует строки одним fernet-ключом.
// Расшифровка выполняется потребителями секретов вне сервиса.
type Sealer struct {
	key       *fernet.Key
	ephemeral bool
}

// NewSealer создаёт Sealer из ключа в base64 (формат fernet).
// Пустая строка — сгенерировать временный ключ: секреты, записанные
// с ним, нельзя будет расшифровать после перезапуска.
func NewSealer(encodedKey string) (*Sealer, error) {
	if encodedKey == "" {
		var k fernet.Key
		if err := k.Generate(); err != nil {
			return nil, fmt.Errorf("генерация fernet-ключа: %w", err)
		}
		return &Sealer{key: &k, ephemeral: true}, nil
	}

	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("декодирование fernet-ключа: %w", err)
	}
	return &Sealer{key: key}, nil
}

// Ephemeral сообщает, что ключ сгенерирован при старте, а не задан в конфигурации.
func (s *Sealer) Ephemeral() bool {
	return s.ephemeral
}

// Seal шифрует plaintext. Пустая строка остаётся пустой.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	tok, err := fernet.EncryptAndSign([]byte(plaintext), s.key)
	if err != nil {
		return "", fmt.Errorf("шифрование: %w", err)
	}
	return string(tok), nil
}

// SealPtr — Seal для необязательных полей. nil остаётся nil.
func (s *Sealer) SealPtr(plaintext *string) (*string, error) {
	if plaintext == nil {
		return nil, nil
	}
	sealed, err := s.Seal(*plaintext)
	if err != nil {
		return nil, err
	}
	return &sealed, nil
}

// Mask полностью скрывает значение для вывода.
// Длина и хвост секрета не раскрываются.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	return "*****"
}

// Пакет sshkey — генерация RSA-ключей для доступа к SFTP и кодирование
// публичного ключа в wire-формат SSH ("ssh-rsa <base64>").
// Приватный ключ — PEM (PKCS#8, блок "PRIVATE KEY").
package sshkey

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"golang.org/x/crypto/ssh"
)

const (
	// KeyType — тег алгоритма в wire-формате и в строке публичного ключа.
	KeyType = "ssh-rsa"
	// KeyBits — размер модуля RSA.
	KeyBits = 2048

	pemBlockType = "PRIVATE KEY"
)

// ErrKeyGeneration — источник случайности или кодирование ключа отказали.
// Повторять такую операцию бессмысленно.
var ErrKeyGeneration = errors.New("ошибка генерации ключевой пары")

// ErrInvalidPublicKey — строка не является публичным ключом ssh-rsa.
var ErrInvalidPublicKey = errors.New("некорректный публичный ключ ssh-rsa")

// KeyPair — сгенерированная ключевая пара.
type KeyPair struct {
	// PrivateKey — PEM-encoded PKCS#8.
	PrivateKey string
	// PublicKey — "ssh-rsa <base64(wire)>".
	PublicKey string
}

// Generate создаёт новую пару из crypto/rand.
func Generate() (*KeyPair, error) {
	return GenerateFrom(rand.Reader)
}

// GenerateFrom создаёт новую пару, используя random как источник энтропии.
func GenerateFrom(random io.Reader) (*KeyPair, error) {
	priv, err := rsa.GenerateKey(random, KeyBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: PKCS#8: %w", ErrKeyGeneration, err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  pemBlockType,
		Bytes: der,
	})

	return &KeyPair{
		PrivateKey: string(privPEM),
		PublicKey:  MarshalPublicKey(&priv.PublicKey),
	}, nil
}

// MarshalPublicKey кодирует публичный ключ в строку "ssh-rsa <base64>".
//
// Буфер: [len]"ssh-rsa" [len]e [len]n, длины — uint32 big-endian.
// e и n кодируются как mpint: минимальное число байт big-endian,
// с ведущим 0x00, если старший бит установлен (RFC 4251, раздел 5).
func MarshalPublicKey(pub *rsa.PublicKey) string {
	e := new(big.Int).SetInt64(int64(pub.E))

	var buf bytes.Buffer
	writeString(&buf, []byte(KeyType))
	writeString(&buf, mpint(e))
	writeString(&buf, mpint(pub.N))

	return KeyType + " " + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// ParsePublicKey разбирает строку "ssh-rsa <base64> [comment]" обратно в *rsa.PublicKey.
func ParsePublicKey(s string) (*rsa.PublicKey, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 || fields[0] != KeyType {
		return nil, fmt.Errorf("%w: ожидается префикс %q", ErrInvalidPublicKey, KeyType)
	}

	wire, err := base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", ErrInvalidPublicKey, err)
	}

	algo, rest, ok := readString(wire)
	if !ok || string(algo) != KeyType {
		return nil, fmt.Errorf("%w: неверный тег алгоритма", ErrInvalidPublicKey)
	}
	eBytes, rest, ok := readString(rest)
	if !ok {
		return nil, fmt.Errorf("%w: обрезанная экспонента", ErrInvalidPublicKey)
	}
	nBytes, rest, ok := readString(rest)
	if !ok {
		return nil, fmt.Errorf("%w: обрезанный модуль", ErrInvalidPublicKey)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: лишние байты после модуля", ErrInvalidPublicKey)
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() > 1<<31-1 || e.Int64() < 3 {
		return nil, fmt.Errorf("%w: недопустимая экспонента", ErrInvalidPublicKey)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}

// ParsePrivateKey разбирает PEM PKCS#8 и возвращает RSA-ключ.
func ParsePrivateKey(privatePEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privatePEM))
	if block == nil || block.Type != pemBlockType {
		return nil, errors.New("ожидается PEM-блок PRIVATE KEY")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("разбор PKCS#8: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("ожидается RSA-ключ, получен %T", key)
	}
	return rsaKey, nil
}

// Fingerprint возвращает отпечаток публичного ключа в формате OpenSSH (SHA256:...).
// Отпечаток безопасно логировать и показывать в списках.
func Fingerprint(publicKey string) (string, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(publicKey))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return ssh.FingerprintSHA256(pub), nil
}

// mpint возвращает представление неотрицательного числа в формате SSH mpint (без префикса длины).
func mpint(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) > 0 && b[0]&0x80 != 0 {
		return append([]byte{0}, b...)
	}
	return b
}

func writeString(buf *bytes.Buffer, b []byte) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(b)))
	buf.Write(length[:])
	buf.Write(b)
}

func readString(in []byte) (out, rest []byte, ok bool) {
	if len(in) < 4 {
		return nil, nil, false
	}
	length := binary.BigEndian.Uint32(in)
	in = in[4:]
	if uint32(len(in)) < length {
		return nil, nil, false
	}
	return in[:length], in[length:], true
}

// Package codegen выпускает человекочитаемые уникальные коды сущностей:
// префикс типа + короткий цифровой дайджест seed-строки.
// Коллизии разрешаются детерминированно: числовая часть увеличивается на 1,
// пока кандидат занят.
package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// DigestDigits — минимальная ширина числовой части кода.
	DigestDigits = 6

	digestModulus = 1_000_000
)

// ErrMalformedCode возвращается, если кандидат не имеет вида <префикс><цифры>.
var ErrMalformedCode = errors.New("malformed code")

// Set — множество уже занятых кодов. Генератор его только читает.
type Set map[string]struct{}

// NewSet строит множество из списка кодов.
func NewSet(codes ...string) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Contains сообщает, занят ли код. Nil-множество пусто.
func (s Set) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// Generator выпускает коды с фиксированным префиксом.
type Generator struct {
	prefix string
}

// New создаёт генератор с префиксом типа сущности ("A" для товаров, "PREMIUM" для членства).
func New(prefix string) Generator {
	return Generator{prefix: prefix}
}

// Prefix возвращает префикс генератора.
func (g Generator) Prefix() string {
	return g.prefix
}

// Generate возвращает базовый кандидат для seed без учёта занятых кодов.
func (g Generator) Generate(seed string) string {
	return g.prefix + Digest(seed)
}

// Next выпускает код для seed, свободный относительно taken.
func (g Generator) Next(seed string, taken Set) (string, error) {
	return g.Resolve(g.Generate(seed), taken)
}

// Resolve возвращает candidate, если он свободен; иначе увеличивает числовую часть
// на 1 и пробует снова. Числовое пространство не ограничено сверху, поэтому
// рекурсия завершается для любого конечного taken.
func (g Generator) Resolve(candidate string, taken Set) (string, error) {
	if !taken.Contains(candidate) {
		return candidate, nil
	}

	next, err := g.increment(candidate)
	if err != nil {
		return "", err
	}
	return g.Resolve(next, taken)
}

func (g Generator) increment(candidate string) (string, error) {
	digits, ok := strings.CutPrefix(candidate, g.prefix)
	if !ok || digits == "" || !isDigits(digits) {
		return "", fmt.Errorf("%w: %q (prefix %q)", ErrMalformedCode, candidate, g.prefix)
	}
	return g.prefix + incrementDigits(digits), nil
}

// Digest — стабильный короткий дайджест seed: xxhash64 нормализованной строки
// по модулю 10^6, дополненный нулями до DigestDigits.
func Digest(seed string) string {
	normalized := strings.ToUpper(strings.TrimSpace(seed))
	return fmt.Sprintf("%0*d", DigestDigits, xxhash.Sum64String(normalized)%digestModulus)
}

// incrementDigits прибавляет 1 к десятичной строке произвольной длины с сохранением ширины.
func incrementDigits(digits string) string {
	buf := []byte(digits)
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i] < '9' {
			buf[i]++
			return string(buf)
		}
		buf[i] = '0'
	}
	return "1" + string(buf)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

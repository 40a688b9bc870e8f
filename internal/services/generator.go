package services

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"

	"github.com/fsdevblog/shortlinks/internal/models"
)

const shortcodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CodeGenerator генерирует кандидатов в короткие коды. Уникальность проверяет реестр.
type CodeGenerator interface {
	Generate() string
}

// Generator случайные алфавитно-цифровые коды фиксированной длины.
type Generator struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	length int
}

// GeneratorOptions настройки генератора.
type GeneratorOptions struct {
	Source rand.Source // Источник случайности, по умолчанию ChaCha8 с seed из crypto/rand
	Length int         // Длина кода
}

// WithSource задает источник случайности, удобно для детерминированных тестов.
func WithSource(src rand.Source) func(*GeneratorOptions) {
	return func(o *GeneratorOptions) {
		o.Source = src
	}
}

func NewGenerator(opts ...func(*GeneratorOptions)) *Generator {
	options := GeneratorOptions{Length: models.GeneratedShortcodeLength}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Source == nil {
		var seed [32]byte
		_, _ = crand.Read(seed[:])
		options.Source = rand.NewChaCha8(seed)
	}
	return &Generator{
		rnd:    rand.New(options.Source), //nolint:gosec
		length: options.Length,
	}
}

func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, g.length)
	for i := range b {
		b[i] = shortcodeAlphabet[g.rnd.IntN(len(shortcodeAlphabet))]
	}
	return string(b)
}

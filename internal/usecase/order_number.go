package usecase

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// OrderNumberGenerator は表示用の注文番号を作る
type OrderNumberGenerator interface {
	Next(now time.Time) string
}

const orderNumberSuffixLen = 6

// ULIDOrderNumbers は AM-YYMMDD-XXXXXX を作る（XXXXXXはULIDのランダム部の末尾）
// 重複はDBの一意制約で検出して作り直す。
type ULIDOrderNumbers struct {
	mu      sync.Mutex
	entropy io.Reader
}

func NewULIDOrderNumbers(entropy io.Reader) *ULIDOrderNumbers {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &ULIDOrderNumbers{entropy: entropy}
}

func (g *ULIDOrderNumbers) Next(now time.Time) string {
	g.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), g.entropy)
	g.mu.Unlock()

	s := id.String()
	return "AM-" + now.Format("060102") + "-" + s[len(s)-orderNumberSuffixLen:]
}

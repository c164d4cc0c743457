package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong bcrypt 只使用前72字节，超过时直接拒绝
var ErrTooLong = errors.New("password longer than 72 bytes")

// Cost bcrypt 计算成本，测试中调低以加快速度
var Cost = bcrypt.DefaultCost

// Hash 生成密码哈希
func Hash(plain string) (string, error) {
	if len(plain) > 72 {
		return "", ErrTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 校验密码
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

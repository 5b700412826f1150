package utils

import (
	"crypto/rand"
	"math/big"
)

// RandString generate rand string with specified length
// 用于生成webhook secret和账户api key，必须使用加密随机源
func RandString(length int) string {
	str := "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	data := []byte(str)
	result := make([]byte, length)
	max := big.NewInt(int64(len(data)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 不可用时没有安全的退路
			panic(err)
		}
		result[i] = data[n.Int64()]
	}
	return string(result)
}

package util

import (
	"github.com/spaolacci/murmur3"
)

// Murmur32 hashes a string key without copying it.
func Murmur32(key string) uint32 {
	return murmur3.Sum32(StringToByte(key))
}

// ShardIndex maps key onto one of n shards. n must be positive.
func ShardIndex(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(Murmur32(key) % uint32(n))
}

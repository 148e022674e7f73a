package keys

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const (
	// PfxMetadata is used for prefixing cached metadata documents
	PfxMetadata = "metadata"
)

// MD5 hashes the data with md5
func MD5(data string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// MetadataKey is the cache key of the document behind uri
func MetadataKey(uri string) string {
	return RedisKey(PfxMetadata, MD5(uri))
}

// GetPrefix extracts the prefix of a key, used as a metrics tag
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 1 {
		return s[0]
	}
	return ""
}

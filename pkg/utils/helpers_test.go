package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMD5(t *testing.T) {
	// 已知摘要
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", CalculateMD5(nil))
	assert.Equal(t, "9e107d9d372bb6826bd81d3542a419d6", CalculateMD5([]byte("The quick brown fox jumps over the lazy dog")))

	// 相同输入得到相同摘要
	assert.Equal(t, CalculateMD5([]byte("resume")), CalculateMD5([]byte("resume")))
	assert.NotEqual(t, CalculateMD5([]byte("a")), CalculateMD5([]byte("b")))
}

func TestConvertArrayToJSON(t *testing.T) {
	assert.Equal(t, "[]", string(ConvertArrayToJSON(nil)))
	assert.Equal(t, "[]", string(ConvertArrayToJSON([]string{})))
	assert.Equal(t, `["planning","billing"]`, string(ConvertArrayToJSON([]string{"planning", "billing"})))
}

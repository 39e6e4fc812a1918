package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []string{
		"12345678",
		"Av. Corrientes 1234, CABA",
		"Prefiere entrenar por la mañana",
		"ñandú áéíóú",
	}
	for _, v := range values {
		encoded := EncodeSensitive(v)
		assert.NotEqual(t, v, encoded)
		assert.Equal(t, v, DecodeSensitive(encoded))
	}
}

func TestEncodeEmptyValue(t *testing.T) {
	assert.Equal(t, "", EncodeSensitive(""))
	assert.Equal(t, "", DecodeSensitive(""))
}

func TestDecodeLegacyPlaintext(t *testing.T) {
	// 历史数据里没有前缀的明文必须原样返回
	assert.Equal(t, "30123456", DecodeSensitive("30123456"))
	assert.Equal(t, "texto sin prefijo", DecodeSensitive("texto sin prefijo"))
}

func TestDecodeCorruptedValue(t *testing.T) {
	// 前缀正确但内容不是合法base64：返回占位文本，不报错
	assert.Equal(t, DecodeFailedPlaceholder, DecodeSensitive("encrypted_%%%no-base64%%%"))
}

func TestDecodeDoubleEncode(t *testing.T) {
	// 二次编码后解码一次只剥掉一层
	once := EncodeSensitive("dato")
	twice := EncodeSensitive(once)
	assert.Equal(t, once, DecodeSensitive(twice))
	assert.Equal(t, "dato", DecodeSensitive(DecodeSensitive(twice)))
}

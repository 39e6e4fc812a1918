package utils

import "encoding/base64"

// 敏感字段（dni/address/notes）的可逆占位编码。
// 不是加密，不提供保密性；只保持"写时编码、读时解码"的契约形状，
// 与历史数据中的明文值兼容。
const sensitivePrefix = "encrypted_"

// DecodeFailedPlaceholder 解码失败时的占位文本，保证记录其余字段仍可用
const DecodeFailedPlaceholder = "Error de descifrado"

// EncodeSensitive 编码敏感字段，空值原样返回
func EncodeSensitive(plain string) string {
	if plain == "" {
		return ""
	}
	return sensitivePrefix + base64.StdEncoding.EncodeToString([]byte(plain))
}

// DecodeSensitive 解码敏感字段。
// 没有前缀的值视为历史明文，原样返回；解码失败返回占位文本而不报错。
func DecodeSensitive(encoded string) string {
	if encoded == "" {
		return ""
	}
	if len(encoded) < len(sensitivePrefix) || encoded[:len(sensitivePrefix)] != sensitivePrefix {
		return encoded
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded[len(sensitivePrefix):])
	if err != nil {
		LogError(err, map[string]interface{}{"value": "<redacted>"}, "敏感字段解码失败")
		return DecodeFailedPlaceholder
	}
	return string(decoded)
}

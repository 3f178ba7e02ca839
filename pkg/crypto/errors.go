// Package crypto 提供 libp2p 身份密钥的序列化、签名与验证
package crypto

import "errors"

// ============================================================================
//                              密钥类型错误
// ============================================================================

var (
	// ErrUnsupportedKeyType 枚举值不在 {Ed25519, Secp256k1, RSA} 范围内
	ErrUnsupportedKeyType = errors.New("crypto: unsupported key type")

	// ErrMalformedKey data 字节不符合对应变体的编码规则
	// （Ed25519 长度错误、Secp256k1 点无效、RSA SPKI 无法解析等）
	ErrMalformedKey = errors.New("crypto: malformed key")
)

// ============================================================================
//                              通用密钥错误
// ============================================================================

var (
	// ErrNilPrivateKey 私钥为空
	ErrNilPrivateKey = errors.New("crypto: nil private key")

	// ErrNilPublicKey 公钥为空
	ErrNilPublicKey = errors.New("crypto: nil public key")

	// ErrInvalidKeySize 密钥大小无效
	ErrInvalidKeySize = errors.New("crypto: invalid key size")

	// ErrInvalidPublicKey 公钥无效
	ErrInvalidPublicKey = errors.New("crypto: invalid public key")

	// ErrInvalidPrivateKey 私钥无效
	ErrInvalidPrivateKey = errors.New("crypto: invalid private key")
)

// ============================================================================
//                              签名相关错误
// ============================================================================

var (
	// ErrNilSignature 签名为空
	ErrNilSignature = errors.New("crypto: nil signature")
)

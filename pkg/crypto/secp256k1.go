package crypto

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/minio/sha256-simd"
)

// Secp256k1 密钥常量
const (
	// Secp256k1PrivateKeySize Secp256k1 私钥大小（32 字节）
	Secp256k1PrivateKeySize = 32
	// Secp256k1PublicKeySize Secp256k1 压缩公钥大小（33 字节）
	Secp256k1PublicKeySize = 33
)

// ============================================================================
//                              Secp256k1PublicKey
// ============================================================================

// Secp256k1PublicKey Secp256k1 公钥实现
//
// data 编码固定为 33 字节压缩点（§3），运算委托给 decred/dcrd 的
// secp256k1 实现，不自行实现椭圆曲线算术。
type Secp256k1PublicKey struct {
	k *secp256k1.PublicKey
}

// Raw 返回压缩格式的公钥字节（33 字节）
func (k *Secp256k1PublicKey) Raw() ([]byte, error) {
	return k.k.SerializeCompressed(), nil
}

// Type 返回密钥类型
func (k *Secp256k1PublicKey) Type() KeyType {
	return KeyTypeSecp256k1
}

// Equals 比较两个公钥是否相等
func (k *Secp256k1PublicKey) Equals(other Key) bool {
	sk, ok := other.(*Secp256k1PublicKey)
	if !ok {
		return KeyEqual(k, other)
	}
	return subtle.ConstantTimeCompare(k.k.SerializeCompressed(), sk.k.SerializeCompressed()) == 1
}

// Verify 使用此公钥验证签名
//
// 签名为 ECDSA over secp256k1，消息哈希为 SHA-256。任何解析失败均返回
// (false, nil)，不得向调用方泄露解码异常（§4.2）。
func (k *Secp256k1PublicKey) Verify(data, sig []byte) (bool, error) {
	s, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, nil
	}
	hash := sha256.Sum256(data)
	return s.Verify(hash[:], k.k), nil
}

// ============================================================================
//                              Secp256k1PrivateKey
// ============================================================================

// Secp256k1PrivateKey Secp256k1 私钥实现
type Secp256k1PrivateKey struct {
	k *secp256k1.PrivateKey
}

// Raw 返回原始私钥字节（32 字节标量，大端）
func (k *Secp256k1PrivateKey) Raw() ([]byte, error) {
	b := k.k.Serialize()
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// Type 返回密钥类型
func (k *Secp256k1PrivateKey) Type() KeyType {
	return KeyTypeSecp256k1
}

// Equals 比较两个私钥是否相等
func (k *Secp256k1PrivateKey) Equals(other Key) bool {
	sk, ok := other.(*Secp256k1PrivateKey)
	if !ok {
		return KeyEqual(k, other)
	}
	return subtle.ConstantTimeCompare(k.k.Serialize(), sk.k.Serialize()) == 1
}

// GetPublic 返回对应的公钥
func (k *Secp256k1PrivateKey) GetPublic() PublicKey {
	return &Secp256k1PublicKey{k: k.k.PubKey()}
}

// Sign 使用此私钥签名数据
//
// 返回 DER 编码的 ECDSA 签名，经过低 s 值规范化。
func (k *Secp256k1PrivateKey) Sign(data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)
	sig := ecdsa.Sign(k.k, hash[:])
	return sig.Serialize(), nil
}

// ============================================================================
//                              工厂函数
// ============================================================================

// GenerateSecp256k1Key 生成新的 Secp256k1 密钥对
func GenerateSecp256k1Key(src io.Reader) (PrivateKey, PublicKey, error) {
	var seed [32]byte
	if _, err := io.ReadFull(src, seed[:]); err != nil {
		return nil, nil, err
	}
	priv := secp256k1.PrivKeyFromBytes(seed[:])
	pub := priv.PubKey()
	return &Secp256k1PrivateKey{k: priv}, &Secp256k1PublicKey{k: pub}, nil
}

// UnmarshalSecp256k1PublicKey 从字节反序列化 Secp256k1 公钥
//
// 仅接受 §3 规定的 33 字节压缩点编码；非法编码点返回 ErrMalformedKey。
func UnmarshalSecp256k1PublicKey(data []byte) (PublicKey, error) {
	if len(data) != Secp256k1PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrMalformedKey, Secp256k1PublicKeySize, len(data))
	}

	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return &Secp256k1PublicKey{k: pub}, nil
}

// UnmarshalSecp256k1PrivateKey 从字节反序列化 Secp256k1 私钥
func UnmarshalSecp256k1PrivateKey(data []byte) (PrivateKey, error) {
	if len(data) != Secp256k1PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrMalformedKey, Secp256k1PrivateKeySize, len(data))
	}

	priv := secp256k1.PrivKeyFromBytes(data)
	if priv.Key.IsZero() {
		return nil, ErrMalformedKey
	}
	return &Secp256k1PrivateKey{k: priv}, nil
}

package crypto

import (
	"crypto/ed25519"
	"crypto/subtle"
	"fmt"
	"io"
)

// Ed25519 密钥大小常量——32 字节公钥、64 字节私钥（种子+公钥）、64 字节
// 签名，固定宽度，§3 PublicKey(wire) 的 Ed25519 分支直接是这 32 字节
const (
	Ed25519PrivateKeySize = ed25519.PrivateKeySize
	Ed25519PublicKeySize  = ed25519.PublicKeySize
	Ed25519SignatureSize  = ed25519.SignatureSize
	Ed25519SeedSize       = ed25519.SeedSize
)

// ============================================================================
//                              Ed25519PublicKey
// ============================================================================

// Ed25519PublicKey 是 IdentityKey 的 Ed25519 变体公钥半部
type Ed25519PublicKey struct {
	k ed25519.PublicKey
}

func (k *Ed25519PublicKey) Raw() ([]byte, error) {
	buf := make([]byte, len(k.k))
	copy(buf, k.k)
	return buf, nil
}

func (k *Ed25519PublicKey) Type() KeyType {
	return KeyTypeEd25519
}

// Equals 使用常量时间比较，防止时序攻击泄露公钥内容
func (k *Ed25519PublicKey) Equals(other Key) bool {
	ek, ok := other.(*Ed25519PublicKey)
	if !ok {
		return KeyEqual(k, other)
	}
	return subtle.ConstantTimeCompare(k.k, ek.k) == 1
}

// Verify 使用此公钥验证签名（EdDSA，§4.2）
func (k *Ed25519PublicKey) Verify(data, sig []byte) (bool, error) {
	if len(sig) != Ed25519SignatureSize {
		return false, nil
	}
	return ed25519.Verify(k.k, data, sig), nil
}

// ============================================================================
//                              Ed25519PrivateKey
// ============================================================================

// Ed25519PrivateKey 是 IdentityKey 的 Ed25519 变体私钥半部
type Ed25519PrivateKey struct {
	k ed25519.PrivateKey
}

// Raw 返回原始私钥字节：32 字节种子 + 32 字节公钥，两半已在构造时校验过
// 一致（见 newEd25519PrivateKeyFromSeedAndSuffix）
func (k *Ed25519PrivateKey) Raw() ([]byte, error) {
	buf := make([]byte, len(k.k))
	copy(buf, k.k)
	return buf, nil
}

// Seed 返回私钥种子（32 字节）
func (k *Ed25519PrivateKey) Seed() []byte {
	return k.k.Seed()
}

func (k *Ed25519PrivateKey) Type() KeyType {
	return KeyTypeEd25519
}

func (k *Ed25519PrivateKey) Equals(other Key) bool {
	ek, ok := other.(*Ed25519PrivateKey)
	if !ok {
		return KeyEqual(k, other)
	}
	return subtle.ConstantTimeCompare(k.k, ek.k) == 1
}

func (k *Ed25519PrivateKey) GetPublic() PublicKey {
	pub := k.k.Public().(ed25519.PublicKey) //nolint:errcheck // crypto/ed25519 保证此处类型断言成立
	return &Ed25519PublicKey{k: pub}
}

// Sign 使用此私钥签名数据（EdDSA 确定性签名，§4.2）
func (k *Ed25519PrivateKey) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(k.k, data), nil
}

// ============================================================================
//                              工厂函数
// ============================================================================

// GenerateEd25519Key 生成新的 Ed25519 密钥对
func GenerateEd25519Key(src io.Reader) (PrivateKey, PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(src)
	if err != nil {
		return nil, nil, err
	}
	return &Ed25519PrivateKey{k: priv}, &Ed25519PublicKey{k: pub}, nil
}

// UnmarshalEd25519PublicKey 从 32 字节反序列化 Ed25519 公钥（KeyCodec 解码侧）
//
// §4.2：长度错误即 MalformedKey——Ed25519 公钥没有内部结构可供进一步校验，
// 唯一的合法性条件就是长度。
func UnmarshalEd25519PublicKey(data []byte) (PublicKey, error) {
	if len(data) != Ed25519PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedKey, Ed25519PublicKeySize, len(data))
	}

	k := make([]byte, Ed25519PublicKeySize)
	copy(k, data)
	return &Ed25519PublicKey{k: k}, nil
}

// UnmarshalEd25519PrivateKey 从字节反序列化 Ed25519 私钥，支持三种编码：
//   - 32 字节：仅种子，完整私钥由种子派生
//   - 64 字节：种子 + 公钥
//   - 96 字节：种子 + 公钥 + 冗余公钥（兼容某些 libp2p 实现）
//
// 对带公钥半部的两种编码，派生并校验种子对应的公钥是否与编码中携带的公钥
// 字节一致——crypto/ed25519.PrivateKey.Public() 直接返回私钥字节里存储的
// 公钥半部，从不重新从种子计算；如果上游不做这层校验，一个 seed 和 pubkey
// 不匹配的输入会被悄悄接受，GetPublic() 之后返回的公钥将验证不了这个私钥
// 自己产生的签名。96 字节编码里的"冗余公钥"必须同时等于编码中的公钥半部。
func UnmarshalEd25519PrivateKey(data []byte) (PrivateKey, error) {
	switch len(data) {
	case Ed25519PrivateKeySize + Ed25519PublicKeySize:
		embedded := data[Ed25519SeedSize:Ed25519PrivateKeySize]
		redundant := data[Ed25519PrivateKeySize:]
		if subtle.ConstantTimeCompare(embedded, redundant) == 0 {
			return nil, fmt.Errorf("%w: redundant public key mismatch", ErrMalformedKey)
		}
		return newEd25519PrivateKeyFromSeedAndSuffix(data[:Ed25519SeedSize], embedded)

	case Ed25519PrivateKeySize:
		return newEd25519PrivateKeyFromSeedAndSuffix(data[:Ed25519SeedSize], data[Ed25519SeedSize:])

	case Ed25519SeedSize:
		return &Ed25519PrivateKey{k: ed25519.NewKeyFromSeed(data)}, nil

	default:
		return nil, fmt.Errorf("%w: expected %d, %d or %d bytes, got %d",
			ErrMalformedKey, Ed25519SeedSize, Ed25519PrivateKeySize, Ed25519PrivateKeySize+Ed25519PublicKeySize, len(data))
	}
}

// newEd25519PrivateKeyFromSeedAndSuffix re-derives the public half from seed
// and rejects an embedded public key that does not match it.
func newEd25519PrivateKeyFromSeedAndSuffix(seed, embeddedPub []byte) (PrivateKey, error) {
	derived := ed25519.NewKeyFromSeed(seed)
	if subtle.ConstantTimeCompare(derived[Ed25519SeedSize:], embeddedPub) == 0 {
		return nil, fmt.Errorf("%w: embedded public key does not match seed", ErrMalformedKey)
	}
	k := make([]byte, Ed25519PrivateKeySize)
	copy(k, derived)
	return &Ed25519PrivateKey{k: k}, nil
}

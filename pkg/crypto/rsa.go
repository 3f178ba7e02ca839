package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"io"
)

// RSA 密钥大小边界（位）。IdentityKey 变体之一，§4.2：构造函数在 data 不是
// 该变体合法编码时必须失败于 MalformedKey——对 RSA 这意味着 SPKI 必须先
// 能被 x509 解析，再满足这里的边界与一致性检查，解析成功但形状不合理的
// SPKI（过大、指数异常）同样算作无效 SPKI。
const (
	// RSAMinKeySize 最小密钥大小
	RSAMinKeySize = 2048
	// RSADefaultKeySize 默认密钥大小
	RSADefaultKeySize = 2048
	// RSAMaxKeySize 最大密钥大小——握手证书的 SPKI 会被原样塞进
	// libp2p 扩展再塞进 TLS 证书，上限同时是在保护证书/扩展大小不失控
	RSAMaxKeySize = 8192
)

// ============================================================================
//                              RSAPublicKey
// ============================================================================

// RSAPublicKey 是 IdentityKey 的 RSA 变体公钥半部
type RSAPublicKey struct {
	k *rsa.PublicKey
}

// Raw 返回 PKIX/SPKI 格式的公钥字节——即 §3 PublicKey(wire) RSA 分支直接
// 写入 data 字段的编码
func (k *RSAPublicKey) Raw() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(k.k)
}

func (k *RSAPublicKey) Type() KeyType {
	return KeyTypeRSA
}

func (k *RSAPublicKey) Equals(other Key) bool {
	rk, ok := other.(*RSAPublicKey)
	if !ok {
		return KeyEqual(k, other)
	}
	return k.k.N.Cmp(rk.k.N) == 0 && k.k.E == rk.k.E
}

// Verify 使用此公钥验证签名（PKCS#1 v1.5 + SHA-256，§4.2）
func (k *RSAPublicKey) Verify(data, sig []byte) (bool, error) {
	hash := sha256.Sum256(data)
	err := rsa.VerifyPKCS1v15(k.k, crypto.SHA256, hash[:], sig)
	return err == nil, nil
}

// ============================================================================
//                              RSAPrivateKey
// ============================================================================

// RSAPrivateKey 是 IdentityKey 的 RSA 变体私钥半部
type RSAPrivateKey struct {
	k *rsa.PrivateKey
}

// Raw 返回 PKCS#1 格式的私钥字节
func (k *RSAPrivateKey) Raw() ([]byte, error) {
	return x509.MarshalPKCS1PrivateKey(k.k), nil
}

func (k *RSAPrivateKey) Type() KeyType {
	return KeyTypeRSA
}

func (k *RSAPrivateKey) Equals(other Key) bool {
	rk, ok := other.(*RSAPrivateKey)
	if !ok {
		return KeyEqual(k, other)
	}
	return k.k.D.Cmp(rk.k.D) == 0 && k.k.N.Cmp(rk.k.N) == 0
}

func (k *RSAPrivateKey) GetPublic() PublicKey {
	return &RSAPublicKey{k: &k.k.PublicKey}
}

// Sign 使用此私钥签名数据（PKCS#1 v1.5 + SHA-256，§4.2）
func (k *RSAPrivateKey) Sign(data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)
	return rsa.SignPKCS1v15(rand.Reader, k.k, crypto.SHA256, hash[:])
}

// ============================================================================
//                              工厂函数
// ============================================================================

// GenerateRSAKey 生成新的 RSA 密钥对
func GenerateRSAKey(bits int, src io.Reader) (PrivateKey, PublicKey, error) {
	if bits < RSAMinKeySize {
		return nil, nil, fmt.Errorf("RSA key size must be at least %d bits", RSAMinKeySize)
	}
	if bits > RSAMaxKeySize {
		return nil, nil, fmt.Errorf("RSA key size must be at most %d bits", RSAMaxKeySize)
	}

	priv, err := rsa.GenerateKey(src, bits)
	if err != nil {
		return nil, nil, err
	}
	return &RSAPrivateKey{k: priv}, &RSAPublicKey{k: &priv.PublicKey}, nil
}

// UnmarshalRSAPublicKey 从 SPKI DER 字节构造 RSA 公钥（KeyCodec 解码侧，§4.1）
//
// x509.ParsePKIXPublicKey 只检查 ASN.1 结构是否合法，不检查得到的
// rsa.PublicKey 本身是不是一个"合理"的 RSA 公钥——一份结构合法但 N 为偶数、
// E<=1 或位长超出边界的 SPKI 仍会被它接受。对这条路径而言，SPKI 来自对端
// 在握手中发来的证书，必须当作不可信输入：结构合法但形状不合理同样算无效
// SPKI，统一归为 MalformedKey（§4.2）。
func UnmarshalRSAPublicKey(data []byte) (PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", ErrMalformedKey)
	}

	if err := validateRSAPublicKey(rsaPub); err != nil {
		return nil, err
	}

	return &RSAPublicKey{k: rsaPub}, nil
}

// UnmarshalRSAPrivateKey 从字节反序列化 RSA 私钥，支持 PKCS#1 和 PKCS#8
func UnmarshalRSAPrivateKey(data []byte) (PrivateKey, error) {
	if priv, err := x509.ParsePKCS1PrivateKey(data); err == nil {
		if err := validateRSAPublicKey(&priv.PublicKey); err != nil {
			return nil, err
		}
		return &RSAPrivateKey{k: priv}, nil
	}

	if key, err := x509.ParsePKCS8PrivateKey(data); err == nil {
		if rsaKey, ok := key.(*rsa.PrivateKey); ok {
			if err := validateRSAPublicKey(&rsaKey.PublicKey); err != nil {
				return nil, err
			}
			return &RSAPrivateKey{k: rsaKey}, nil
		}
	}

	return nil, fmt.Errorf("%w: not a PKCS#1 or PKCS#8 RSA private key", ErrMalformedKey)
}

// validateRSAPublicKey 拒绝结构上能解析、但不是一个有效 RSA 公钥的 SPKI。
//
// phi(N) = (p-1)(q-1) 对任意素数 p、q 都是偶数，所以任何合法的公开指数 E
// 必须与 phi(N) 互素——这要求 E 为奇数且大于 1；N 本身必须为正奇数（两个
// 奇素数之积）。这些检查比教师实现里单纯的位长下限更贴近"invalid SPKI"
// 在 §4.2 中的字面含义：不仅太小的密钥无效，形状错误的密钥也无效。
func validateRSAPublicKey(pub *rsa.PublicKey) error {
	if pub == nil || pub.N == nil {
		return fmt.Errorf("%w: missing modulus", ErrMalformedKey)
	}
	if pub.N.Sign() <= 0 || pub.N.Bit(0) == 0 {
		return fmt.Errorf("%w: modulus is not a positive odd integer", ErrMalformedKey)
	}
	if pub.E <= 1 || pub.E%2 == 0 {
		return fmt.Errorf("%w: exponent is not odd and greater than 1", ErrMalformedKey)
	}
	if bits := pub.N.BitLen(); bits < RSAMinKeySize {
		return fmt.Errorf("%w: RSA key too small (%d bits)", ErrMalformedKey, bits)
	} else if bits > RSAMaxKeySize {
		return fmt.Errorf("%w: RSA key too large (%d bits)", ErrMalformedKey, bits)
	}
	return nil
}

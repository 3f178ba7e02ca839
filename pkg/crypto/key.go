package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
)

// ============================================================================
//                              密钥类型定义
// ============================================================================

// KeyType 密钥类型
//
// 值与 libp2p PublicKey/PrivateKey 协议缓冲区中的 KeyType 枚举对齐：
//   - Ed25519 = 0
//   - RSA = 1
//   - Secp256k1 = 2
//
// 这三个值是 wire 格式的一部分，任何实现都必须原样保留，不能重新编号。
type KeyType int

const (
	// KeyTypeEd25519 Ed25519 密钥（默认推荐）
	KeyTypeEd25519 KeyType = 0
	// KeyTypeRSA RSA 密钥（传统兼容）
	KeyTypeRSA KeyType = 1
	// KeyTypeSecp256k1 Secp256k1 密钥（区块链兼容）
	KeyTypeSecp256k1 KeyType = 2
)

// String 返回密钥类型名称
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeEd25519:
		return "Ed25519"
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeSecp256k1:
		return "Secp256k1"
	default:
		return "Unknown"
	}
}

// KeyTypes 支持的密钥类型列表
var KeyTypes = []KeyType{
	KeyTypeEd25519,
	KeyTypeRSA,
	KeyTypeSecp256k1,
}

// ============================================================================
//                              密钥接口定义
// ============================================================================

// Key 基础密钥接口
type Key interface {
	// Raw 返回原始密钥字节
	Raw() ([]byte, error)

	// Type 返回密钥类型
	Type() KeyType

	// Equals 比较两个密钥是否相等
	Equals(Key) bool
}

// PublicKey 公钥接口
//
// marshal()/sign()/verify() 在 libp2p-tls 握手中的语义见 §4.2：
// Verify 在任何解码失败时必须返回 (false, nil)，不得向上抛出异常。
type PublicKey interface {
	Key

	// Verify 使用此公钥验证签名
	Verify(data, sig []byte) (bool, error)
}

// PrivateKey 私钥接口
type PrivateKey interface {
	Key

	// Sign 使用此私钥签名数据
	Sign(data []byte) ([]byte, error)

	// GetPublic 返回对应的公钥
	GetPublic() PublicKey
}

// ============================================================================
//                              密钥工厂函数
// ============================================================================

// GenerateKeyPair 生成密钥对，使用系统默认的加密安全随机源
func GenerateKeyPair(keyType KeyType) (PrivateKey, PublicKey, error) {
	return GenerateKeyPairWithReader(keyType, rand.Reader)
}

// GenerateKeyPairWithReader 使用指定的随机源生成密钥对
func GenerateKeyPairWithReader(keyType KeyType, reader io.Reader) (PrivateKey, PublicKey, error) {
	switch keyType {
	case KeyTypeEd25519:
		return GenerateEd25519Key(reader)
	case KeyTypeSecp256k1:
		return GenerateSecp256k1Key(reader)
	case KeyTypeRSA:
		return GenerateRSAKey(2048, reader)
	default:
		return nil, nil, ErrUnsupportedKeyType
	}
}

// ============================================================================
//                              反序列化函数
// ============================================================================

// PubKeyUnmarshaller 公钥反序列化函数类型，输入为 §3 中描述的按变体编码的 data 字节
type PubKeyUnmarshaller func(data []byte) (PublicKey, error)

// PrivKeyUnmarshaller 私钥反序列化函数类型
type PrivKeyUnmarshaller func(data []byte) (PrivateKey, error)

// PubKeyUnmarshallers 公钥反序列化函数映射
var PubKeyUnmarshallers = map[KeyType]PubKeyUnmarshaller{
	KeyTypeEd25519:   UnmarshalEd25519PublicKey,
	KeyTypeSecp256k1: UnmarshalSecp256k1PublicKey,
	KeyTypeRSA:       UnmarshalRSAPublicKey,
}

// PrivKeyUnmarshallers 私钥反序列化函数映射
var PrivKeyUnmarshallers = map[KeyType]PrivKeyUnmarshaller{
	KeyTypeEd25519:   UnmarshalEd25519PrivateKey,
	KeyTypeSecp256k1: UnmarshalSecp256k1PrivateKey,
	KeyTypeRSA:       UnmarshalRSAPrivateKey,
}

// UnmarshalPublicKey 由 (type, data) 构造公钥
//
// type 在三个受支持的变体之外时返回 ErrUnsupportedKeyType；
// data 不符合该变体编码规则时返回 ErrMalformedKey。
func UnmarshalPublicKey(keyType KeyType, data []byte) (PublicKey, error) {
	um, ok := PubKeyUnmarshallers[keyType]
	if !ok {
		return nil, ErrUnsupportedKeyType
	}
	return um(data)
}

// UnmarshalPrivateKey 由 (type, data) 构造私钥
func UnmarshalPrivateKey(keyType KeyType, data []byte) (PrivateKey, error) {
	um, ok := PrivKeyUnmarshallers[keyType]
	if !ok {
		return nil, ErrUnsupportedKeyType
	}
	return um(data)
}

// MarshalPublicKey 将公钥编码为 libp2p PublicKey protobuf 字节（KeyCodec 编码侧）
func MarshalPublicKey(pub PublicKey) ([]byte, error) {
	raw, err := pub.Raw()
	if err != nil {
		return nil, err
	}
	return EncodeKeyProto(pub.Type(), raw), nil
}

// UnmarshalPublicKeyProto 解析 libp2p PublicKey protobuf 字节并构造公钥
func UnmarshalPublicKeyProto(data []byte) (PublicKey, error) {
	kt, keyData, err := DecodeKeyProto(data)
	if err != nil {
		return nil, err
	}
	return UnmarshalPublicKey(kt, keyData)
}

// ============================================================================
//                              辅助函数
// ============================================================================

// KeyEqual 使用常量时间比较两个密钥是否相等，防止时序攻击
func KeyEqual(k1, k2 Key) bool {
	if k1.Type() != k2.Type() {
		return false
	}

	b1, err1 := k1.Raw()
	b2, err2 := k2.Raw()

	if err1 != nil || err2 != nil {
		return false
	}

	return subtle.ConstantTimeCompare(b1, b2) == 1
}

// RandomBytes 生成指定长度的加密安全随机字节
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(rand.Reader, b)
	return b, err
}

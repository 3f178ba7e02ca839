package crypto

import (
	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-varint"
)

// ============================================================================
//                              多重哈希常量
// ============================================================================

const (
	// multihashIdentity identity 多重哈希函数码：摘要即原始数据本身
	multihashIdentity = 0x00
	// multihashSHA256 sha2-256 多重哈希函数码
	multihashSHA256 = 0x12

	// identityThreshold 标准 libp2p 规则：序列化公钥 protobuf 不超过此长度时，
	// 直接用 identity 多重哈希承载原始字节；否则改用 SHA-256 摘要（§4.3）。
	identityThreshold = 42
)

// ============================================================================
//                              PeerId
// ============================================================================

// PeerId 是 libp2p 的稳定身份标识：marshaled PublicKey protobuf 的多重哈希
type PeerId struct {
	// multihash 是完整的多重哈希字节：code（varint）+ length（varint）+ digest
	multihash []byte
	// pub 是派生该 PeerId 时使用的公钥；仅在本地可得，不参与 Equals 比较
	pub PublicKey
}

// Multihash 返回完整的多重哈希字节
func (id PeerId) Multihash() []byte {
	return append([]byte(nil), id.multihash...)
}

// PublicKey 返回派生该 PeerId 的公钥（可能为 nil，例如从字符串解析而来）
func (id PeerId) PublicKey() PublicKey {
	return id.pub
}

// String 返回 Base58 编码的多重哈希（Ed25519 密钥为 "12D3KooW…" 形式，
// 走 sha2-256 分支的 RSA 密钥为 "Qm…" 形式）
func (id PeerId) String() string {
	return base58.Encode(id.multihash)
}

// IsEmpty 判断 PeerId 是否为零值
func (id PeerId) IsEmpty() bool {
	return len(id.multihash) == 0
}

// Equals 比较两个 PeerId 的多重哈希摘要是否完全相等
func (id PeerId) Equals(other PeerId) bool {
	return equalBytes(id.multihash, other.multihash)
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============================================================================
//                              派生与解析
// ============================================================================

// PeerIdFromPublicKey 从公钥派生 PeerId（PeerIdDerivation 组件，§4.3）
//
// 1. 将公钥编码为 PublicKey protobuf 字节；
// 2. 若编码长度 ≤ 42 字节，多重哈希用 identity 码（0x00）承载原始字节；
//    否则用 sha2-256 码（0x12）承载摘要。两条分支都必须保留，这是标准
//    libp2p 规则，不是可以"优化掉"的特例。
func PeerIdFromPublicKey(pub PublicKey) (PeerId, error) {
	if pub == nil {
		return PeerId{}, ErrNilPublicKey
	}

	keyBytes, err := MarshalPublicKey(pub)
	if err != nil {
		return PeerId{}, err
	}

	mh, err := encodeMultihash(keyBytes)
	if err != nil {
		return PeerId{}, err
	}

	return PeerId{multihash: mh, pub: pub}, nil
}

// PeerIdFromPrivateKey 从私钥派生 PeerId（取其公钥部分）
func PeerIdFromPrivateKey(priv PrivateKey) (PeerId, error) {
	if priv == nil {
		return PeerId{}, ErrNilPrivateKey
	}
	return PeerIdFromPublicKey(priv.GetPublic())
}

// ParsePeerId 将 Base58 字符串解析为 PeerId（不携带公钥引用）
func ParsePeerId(s string) (PeerId, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return PeerId{}, ErrMalformedKey
	}
	if _, _, err := decodeMultihashHeader(b); err != nil {
		return PeerId{}, err
	}
	return PeerId{multihash: b}, nil
}

// encodeMultihash 按 identity/sha2-256 分支规则构造多重哈希字节
func encodeMultihash(data []byte) ([]byte, error) {
	var code uint64
	var digest []byte

	if len(data) <= identityThreshold {
		code = multihashIdentity
		digest = data
	} else {
		sum := sha256.Sum256(data)
		code = multihashSHA256
		digest = sum[:]
	}

	header := varint.ToUvarint(code)
	header = append(header, varint.ToUvarint(uint64(len(digest)))...)
	return append(header, digest...), nil
}

// decodeMultihashHeader 解析多重哈希的 code/length 前缀，校验整体长度
func decodeMultihashHeader(mh []byte) (code uint64, digest []byte, err error) {
	code, n, err := varint.FromUvarint(mh)
	if err != nil {
		return 0, nil, ErrMalformedKey
	}
	rest := mh[n:]

	length, n2, err := varint.FromUvarint(rest)
	if err != nil {
		return 0, nil, ErrMalformedKey
	}
	rest = rest[n2:]

	if uint64(len(rest)) != length {
		return 0, nil, ErrMalformedKey
	}
	return code, rest, nil
}

package crypto

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// ============================================================================
//                    KeyCodec：libp2p PublicKey/PrivateKey protobuf
// ============================================================================
//
// wire 格式（见 §3、§6）：
//
//	message PublicKey {
//	  KeyType Type = 1; // varint
//	  bytes   Data = 2; // length-delimited
//	}
//
// KeyType 枚举值 {Ed25519=0, RSA=1, Secp256k1=2} 固定不变；未知字段按 wire
// type 跳过；type 缺省时取 Ed25519，data 缺省时取空切片。

const (
	keyFieldType protowire.Number = 1
	keyFieldData protowire.Number = 2
)

// EncodeKeyProto 按 §3/§6 编码 {type, data} 为 protobuf 字节
func EncodeKeyProto(kt KeyType, data []byte) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, keyFieldType, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(kt))
	buf = protowire.AppendTag(buf, keyFieldData, protowire.BytesType)
	buf = protowire.AppendBytes(buf, data)
	return buf
}

// DecodeKeyProto 解析 protobuf 字节为 {type, data}，填充默认值
//
// 长度分隔字段越过缓冲区末尾，或枚举值无法识别，返回 ErrMalformedKey。
func DecodeKeyProto(b []byte) (KeyType, []byte, error) {
	kt := KeyTypeEd25519
	var data []byte
	sawType := false

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, nil, ErrMalformedKey
		}
		b = b[n:]

		switch {
		case num == keyFieldType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, nil, ErrMalformedKey
			}
			b = b[n:]
			kt = KeyType(v)
			sawType = true
		case num == keyFieldData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, nil, ErrMalformedKey
			}
			data = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return 0, nil, ErrMalformedKey
			}
			b = b[n:]
		}
	}

	if sawType {
		switch kt {
		case KeyTypeEd25519, KeyTypeRSA, KeyTypeSecp256k1:
		default:
			return 0, nil, ErrMalformedKey
		}
	}

	return kt, data, nil
}

// Package crypto 提供 libp2p 身份密钥（IdentityKey）的序列化、签名与验证，
// 以及由公钥派生 PeerId 的多重哈希逻辑。
//
// # 支持的密钥类型
//
//   - Ed25519（默认推荐）：高性能椭圆曲线签名
//   - Secp256k1（区块链兼容）：比特币/以太坊使用的曲线
//   - RSA（传统兼容）：2048 至 8192 位
//
// 三者的数值与 libp2p PublicKey/PrivateKey protobuf 中的 KeyType 枚举对齐
// （Ed25519=0, RSA=1, Secp256k1=2），不得重新编号。
//
// # 快速开始
//
// 生成密钥对：
//
//	priv, pub, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
//
// 签名和验证：
//
//	sig, err := priv.Sign(data)
//	valid, err := pub.Verify(data, sig)
//
// 编码为 libp2p PublicKey protobuf 并派生 PeerId：
//
//	protoBytes, err := crypto.MarshalPublicKey(pub)
//	peerID, err := crypto.PeerIdFromPublicKey(pub)
//
// # 安全特性
//
//   - KeyEqual 及 Ed25519、Secp256k1 密钥的 Equals 使用常量时间比较防止时序攻击
//     （RSA 密钥的 Equals 用 big.Int 比较）
//   - Verify 对任何解码失败返回 (false, nil)，不抛出异常
package crypto

package tls

import "errors"

// ============================================================================
//                              错误类型（§7）
// ============================================================================
//
// 这里的每一个错误都是握手核心对外暴露的失败终点：一旦命中，握手立即
// 失败，核心内部不重试、不降级。UnsupportedKeyType 与 MalformedKey 复用
// pkg/crypto 中同名的密钥层错误，不在此重复定义。

var (
	// ErrInvalidCertificate 证书解析失败、证书 SPKI 无法解析、未收到对端证书或无法派生 PeerId
	ErrInvalidCertificate = errors.New("tls: invalid certificate")

	// ErrCertificateNotYetValid notBefore 晚于当前时间
	ErrCertificateNotYetValid = errors.New("tls: certificate not yet valid")

	// ErrCertificateExpired notAfter 早于当前时间
	ErrCertificateExpired = errors.New("tls: certificate expired")

	// ErrInvalidSelfSignature 证书自身签名验证失败
	ErrInvalidSelfSignature = errors.New("tls: invalid self-signature")

	// ErrNotSelfSigned subject 与 issuer 不一致
	ErrNotSelfSigned = errors.New("tls: certificate is not self-signed")

	// ErrMissingLibp2pExtension 未找到 OID 1.3.6.1.4.1.53594.1.1 的扩展
	ErrMissingLibp2pExtension = errors.New("tls: missing libp2p extension")

	// ErrMalformedLibp2pExtension 扩展值不是两个 OCTET STRING 的 SEQUENCE
	ErrMalformedLibp2pExtension = errors.New("tls: malformed libp2p extension")

	// ErrInvalidCrossSignature libp2p 身份密钥对 SignaturePayload 的签名验证失败
	ErrInvalidCrossSignature = errors.New("tls: invalid cross-signature")

	// ErrUnexpectedPeer 派生出的 PeerId 与调用方期望的 PeerId 不一致
	ErrUnexpectedPeer = errors.New("tls: unexpected peer")

	// ErrMissingPrivateKey 未提供本地身份私钥（传入的 identityKey 为 nil）
	ErrMissingPrivateKey = errors.New("tls: missing private key")

	// ErrMissingPublicKey 生成证书时本地身份私钥的 GetPublic 返回 nil
	ErrMissingPublicKey = errors.New("tls: missing public key")
)

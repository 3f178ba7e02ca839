package tls

import (
	"crypto/x509"
	"fmt"
)

// signaturePayloadPrefix 是交叉签名载荷的固定 ASCII 前缀（§6），21 字节，
// 不含结尾 NUL。
const signaturePayloadPrefix = "libp2p-tls-handshake:"

// ============================================================================
//                              SignaturePayload（§4.4）
// ============================================================================

// encodeSignaturePayload 构造交叉签名覆盖的载荷
//
// 将 spkiDer 解析为 SubjectPublicKeyInfo 并重新序列化为 DER——这一步
// 规范化了非规范的输入编码，保证双方从同一份证书 SPKI 计算出逐字节相同
// 的载荷——然后在前面拼接固定前缀。解析失败返回 ErrInvalidCertificate。
func encodeSignaturePayload(spkiDer []byte) ([]byte, error) {
	canonical, err := canonicalizeSPKI(spkiDer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}

	payload := make([]byte, 0, len(signaturePayloadPrefix)+len(canonical))
	payload = append(payload, []byte(signaturePayloadPrefix)...)
	payload = append(payload, canonical...)
	return payload, nil
}

// canonicalizeSPKI 解析并重新序列化 SubjectPublicKeyInfo 的 DER 编码
//
// crypto/x509 没有直接导出"解析 SPKI 再重新编码"的函数，但 ParsePKIXPublicKey
// 加 MarshalPKIXPublicKey 的组合对合法 SPKI 是幂等的，恰好提供此处需要的
// 规范化性质：非规范输入（冗余长度字节等）被规整为唯一的 DER 表示。
func canonicalizeSPKI(spkiDer []byte) ([]byte, error) {
	pub, err := x509.ParsePKIXPublicKey(spkiDer)
	if err != nil {
		return nil, err
	}
	return x509.MarshalPKIXPublicKey(pub)
}

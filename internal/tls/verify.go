package tls

import (
	"bytes"
	"encoding/asn1"
	"fmt"
	"time"

	gotls "crypto/x509"

	"github.com/dep2p/go-libp2p-tls/pkg/crypto"
)

// VerifyPeerCertificate 实现 CertificateVerifier（§4.6）
//
// 依次执行：解析证书 → 校验有效期窗口 → 校验自签名 → 校验 subject==issuer
// → 按 OID 定位 libp2p 扩展 → 解析为两个 OCTET STRING 的 SEQUENCE →
// 通过 KeyCodec 解码公钥并构造 IdentityKey → 重算 SignaturePayload →
// 验证交叉签名 → 派生 PeerId → 可选地与 expectedPeerId 比对。
//
// 任何一步失败都是握手的致命失败，核心不重试、不降级（§7）。
func VerifyPeerCertificate(rawCert []byte, expectedPeerId crypto.PeerId) (crypto.PeerId, error) {
	cert, err := gotls.ParseCertificate(rawCert)
	if err != nil {
		return crypto.PeerId{}, fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}

	now := time.Now()
	if cert.NotBefore.After(now) {
		return crypto.PeerId{}, ErrCertificateNotYetValid
	}
	if cert.NotAfter.Before(now) {
		return crypto.PeerId{}, ErrCertificateExpired
	}

	if err := cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature); err != nil {
		return crypto.PeerId{}, fmt.Errorf("%w: %v", ErrInvalidSelfSignature, err)
	}

	if !bytes.Equal(cert.RawSubject, cert.RawIssuer) {
		return crypto.PeerId{}, ErrNotSelfSigned
	}

	extValue, err := findLibp2pExtension(cert)
	if err != nil {
		return crypto.PeerId{}, err
	}

	var parsed libp2pExtensionValue
	rest, err := asn1.Unmarshal(extValue, &parsed)
	if err != nil || len(rest) != 0 {
		return crypto.PeerId{}, ErrMalformedLibp2pExtension
	}

	pub, err := crypto.UnmarshalPublicKeyProto(parsed.PublicKey)
	if err != nil {
		return crypto.PeerId{}, err
	}

	payload, err := encodeSignaturePayload(cert.RawSubjectPublicKeyInfo)
	if err != nil {
		return crypto.PeerId{}, err
	}

	ok, err := pub.Verify(payload, parsed.Signature)
	if err != nil || !ok {
		return crypto.PeerId{}, ErrInvalidCrossSignature
	}

	remotePeerId, err := crypto.PeerIdFromPublicKey(pub)
	if err != nil {
		return crypto.PeerId{}, fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}

	if !expectedPeerId.IsEmpty() && !expectedPeerId.Equals(remotePeerId) {
		return crypto.PeerId{}, ErrUnexpectedPeer
	}

	return remotePeerId, nil
}

// findLibp2pExtension 按 OID 搜索扩展，不依赖其在扩展列表中的位置（§4.6 步骤 6）
func findLibp2pExtension(cert *gotls.Certificate) ([]byte, error) {
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(libp2pExtensionOID) {
			return ext.Value, nil
		}
	}
	return nil, ErrMissingLibp2pExtension
}

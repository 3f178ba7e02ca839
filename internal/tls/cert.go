package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/dep2p/go-libp2p-tls/pkg/crypto"
)

// libp2pExtensionOID 是绑定 TLS 证书与 libp2p 身份的自定义扩展 OID（§6）
var libp2pExtensionOID = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 53594, 1, 1}

const (
	// certNotBeforeOffset notBefore = now - 1 小时
	certNotBeforeOffset = -1 * time.Hour
	// certValidityPeriod notAfter = now + ~10 年
	//
	// 上游协议生态的其他地方用的是 ~100 年；这里固定为 10 年是已知的、
	// 刻意保留的行为——上游 ASN.1 编码器对 2050 年之后的日期有 bug，
	// 在那之前不应"顺手修掉"（§9）。
	certValidityPeriod = 3650 * 24 * time.Hour
	// serialBits 序列号采样位宽，~52 位
	serialBits = 52
	// serialRejectPrefix 十进制形式以该前缀开头的序列号被拒绝重采样（§9）
	serialRejectPrefix = "80"
)

// libp2pExtensionValue 是扩展值的 ASN.1 形状：两个 OCTET STRING 的 SEQUENCE（§3）
//
// encoding/asn1 对 []byte 字段默认编码为 OCTET STRING，struct 默认编码为
// SEQUENCE，恰好是这里需要的形状，不必手写 BER/DER。
type libp2pExtensionValue struct {
	PublicKey []byte
	Signature []byte
}

// GenerateCertificate 实现 CertificateBuilder（§4.5）
//
// 输入本地身份私钥，生成一份自签名 X.509 证书：证书自身的密钥对是
// 新鲜生成的 ECDSA P-256 临时密钥，而 identityKey 对该临时密钥的
// SubjectPublicKeyInfo 做交叉签名，写入自定义扩展。返回 PEM 编码的
// 证书与临时私钥；identityKey 的私钥材料永远不会出现在输出或日志中。
func GenerateCertificate(identityKey crypto.PrivateKey) (certPEM, keyPEM string, err error) {
	if identityKey == nil {
		return "", "", ErrMissingPrivateKey
	}

	switch identityKey.Type() {
	case crypto.KeyTypeEd25519, crypto.KeyTypeRSA, crypto.KeyTypeSecp256k1:
	default:
		return "", "", crypto.ErrUnsupportedKeyType
	}

	pub := identityKey.GetPublic()
	if pub == nil {
		return "", "", ErrMissingPublicKey
	}

	certKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("tls: generate ephemeral key: %w", err)
	}

	spkiDER, err := x509.MarshalPKIXPublicKey(&certKey.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("tls: marshal ephemeral SPKI: %w", err)
	}

	payload, err := encodeSignaturePayload(spkiDER)
	if err != nil {
		return "", "", err
	}

	sig, err := identityKey.Sign(payload)
	if err != nil {
		return "", "", fmt.Errorf("tls: sign cross-signature payload: %w", err)
	}

	pubProto, err := crypto.MarshalPublicKey(pub)
	if err != nil {
		return "", "", fmt.Errorf("tls: marshal identity public key: %w", err)
	}

	extValue, err := asn1.Marshal(libp2pExtensionValue{PublicKey: pubProto, Signature: sig})
	if err != nil {
		return "", "", fmt.Errorf("tls: marshal libp2p extension: %w", err)
	}

	serial, err := generateSerial(rand.Reader)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "libp2p"},
		NotBefore:    now.Add(certNotBeforeOffset),
		NotAfter:     now.Add(certValidityPeriod),
		ExtraExtensions: []pkix.Extension{
			{Id: libp2pExtensionOID, Critical: true, Value: extValue},
		},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &certKey.PublicKey, certKey)
	if err != nil {
		return "", "", fmt.Errorf("tls: create certificate: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(certKey)
	if err != nil {
		return "", "", fmt.Errorf("tls: marshal ephemeral private key: %w", err)
	}

	return encodeCertPEM(certDER), encodePrivateKeyPEM(keyDER), nil
}

// generateSerial 采样一个非负的 ~52 位整数，十进制形式不得以 "80" 开头（§9）
//
// 这是已知的下游互操作性 workaround：某些实现把序列号的 ASN.1 编码长度
// 与十进制前缀混淆，序列号以 "80" 开头会触发它们的解析 bug。在上游修复
// 之前必须保留这个拒绝-重采样循环。
func generateSerial(src io.Reader) (*big.Int, error) {
	max := new(big.Int).Lsh(big.NewInt(1), serialBits)
	for {
		n, err := rand.Int(src, max)
		if err != nil {
			return nil, fmt.Errorf("tls: generate serial: %w", err)
		}
		if !strings.HasPrefix(n.String(), serialRejectPrefix) {
			return n, nil
		}
	}
}

// encodeCertPEM 编码证书为标准 PEM（保留末尾换行，与 crypto/tls 消费习惯一致）
func encodeCertPEM(der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

// encodePrivateKeyPEM 编码私钥为 PEM，label 为 "PRIVATE KEY"，按 §6 要求
// 不保留末尾换行符。
func encodePrivateKeyPEM(der []byte) string {
	b := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return strings.TrimSuffix(string(b), "\n")
}

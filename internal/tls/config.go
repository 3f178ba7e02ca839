package tls

import (
	gotls "crypto/tls"
	gox509 "crypto/x509"
	"fmt"

	"github.com/dep2p/go-libp2p-tls/pkg/crypto"
)

// ConfigBuilder 为单次握手构建 *tls.Config（§3 证书生命周期：证书与
// 临时密钥对随握手创建，绝不跨握手复用，握手结束即随连接一起销毁）。
//
// 每次 BuildServerConfig/BuildClientConfig 调用都会通过 GenerateCertificate
// 生成一份新的临时证书，不做任何缓存。
type ConfigBuilder struct {
	identityKey  crypto.PrivateKey
	nextProtos   []string
	sessionCache gotls.ClientSessionCache
}

// NewConfigBuilder 创建配置构建器，identityKey 是本地 libp2p 身份私钥
func NewConfigBuilder(identityKey crypto.PrivateKey) *ConfigBuilder {
	return &ConfigBuilder{
		identityKey: identityKey,
		nextProtos:  []string{"libp2p"},
	}
}

// WithNextProtos 设置 ALPN 协议列表
func (b *ConfigBuilder) WithNextProtos(protos []string) *ConfigBuilder {
	b.nextProtos = protos
	return b
}

// WithSessionCache 设置客户端 Session Cache
//
// libp2p-tls 不支持会话恢复（Non-goals），这仅用于底层 TLS 库的连接复用
// 优化，不影响每次握手都重新做完整的身份验证。
func (b *ConfigBuilder) WithSessionCache(cache gotls.ClientSessionCache) *ConfigBuilder {
	b.sessionCache = cache
	return b
}

// BuildServerConfig 构建服务端 TLS 配置及该次握手的远端身份捕获器
func (b *ConfigBuilder) BuildServerConfig() (*gotls.Config, *remotePeerCapture, error) {
	cert, err := b.ensureCertificate()
	if err != nil {
		return nil, nil, err
	}

	capture := &remotePeerCapture{}
	config := &gotls.Config{
		Certificates: []gotls.Certificate{cert},
		MinVersion:   gotls.VersionTLS13,
		NextProtos:   b.nextProtos,
		ClientAuth:   gotls.RequireAnyClientCert,
		// P2P 场景下证书总是自签名的，标准链验证无从下手；真正的身份
		// 检查全部发生在 VerifyPeerCertificate 里。
		InsecureSkipVerify:    true, //nolint:gosec
		VerifyPeerCertificate: capture.verify(crypto.PeerId{}),
	}
	return config, capture, nil
}

// BuildClientConfig 构建客户端 TLS 配置，expectedPeerId 为空时不做身份匹配
func (b *ConfigBuilder) BuildClientConfig(expectedPeerId crypto.PeerId) (*gotls.Config, *remotePeerCapture, error) {
	cert, err := b.ensureCertificate()
	if err != nil {
		return nil, nil, err
	}

	capture := &remotePeerCapture{}
	config := &gotls.Config{
		Certificates:          []gotls.Certificate{cert},
		MinVersion:            gotls.VersionTLS13,
		NextProtos:            b.nextProtos,
		InsecureSkipVerify:    true, //nolint:gosec
		VerifyPeerCertificate: capture.verify(expectedPeerId),
		ClientSessionCache:    b.sessionCache,
	}
	return config, capture, nil
}

func (b *ConfigBuilder) ensureCertificate() (gotls.Certificate, error) {
	certPEM, keyPEM, err := GenerateCertificate(b.identityKey)
	if err != nil {
		return gotls.Certificate{}, err
	}

	cert, err := gotls.X509KeyPair([]byte(certPEM), []byte(keyPEM))
	if err != nil {
		return gotls.Certificate{}, fmt.Errorf("tls: load ephemeral certificate: %w", err)
	}
	return cert, nil
}

// remotePeerCapture 把 crypto/tls 的 VerifyPeerCertificate 回调（无返回值
// 可用）与 CertificateVerifier 的结果（remotePeerId）连接起来：回调内部
// 调用 VerifyPeerCertificate 并把结果写进这个结构体，握手完成后由调用方
// 读出。每次握手都创建新的 capture，不跨握手共享，没有数据竞争。
type remotePeerCapture struct {
	peerID crypto.PeerId
	err    error
}

func (c *remotePeerCapture) verify(expectedPeerId crypto.PeerId) func([][]byte, [][]*gox509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*gox509.Certificate) error {
		if len(rawCerts) == 0 {
			c.err = ErrInvalidCertificate
			return c.err
		}

		peerID, err := VerifyPeerCertificate(rawCerts[0], expectedPeerId)
		if err != nil {
			c.err = err
			return err
		}

		c.peerID = peerID
		return nil
	}
}

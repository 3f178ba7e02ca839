package tls

import (
	gotls "crypto/tls"
	"errors"
	"net"

	"github.com/dep2p/go-libp2p-tls/pkg/crypto"
)

// SecureConnState 描述一次已完成握手的安全连接状态快照
type SecureConnState struct {
	LocalPeer       crypto.PeerId
	RemotePeer      crypto.PeerId
	LocalPublicKey  crypto.PublicKey
	RemotePublicKey crypto.PublicKey
}

// secureConn 包装标准库 *tls.Conn，附加 libp2p 身份信息
type secureConn struct {
	*gotls.Conn

	localPeer    crypto.PeerId
	remotePeer   crypto.PeerId
	localPubKey  crypto.PublicKey
	remotePubKey crypto.PublicKey
}

// newSecureConn 创建安全连接包装
func newSecureConn(
	tlsConn *gotls.Conn,
	localPeer, remotePeer crypto.PeerId,
	localPubKey, remotePubKey crypto.PublicKey,
) *secureConn {
	return &secureConn{
		Conn:         tlsConn,
		localPeer:    localPeer,
		remotePeer:   remotePeer,
		localPubKey:  localPubKey,
		remotePubKey: remotePubKey,
	}
}

// LocalPeer 返回本地 PeerId
func (c *secureConn) LocalPeer() crypto.PeerId {
	return c.localPeer
}

// RemotePeer 返回远端 PeerId，即 CertificateVerifier 的验证结果
func (c *secureConn) RemotePeer() crypto.PeerId {
	return c.remotePeer
}

// LocalPublicKey 返回本地身份公钥
func (c *secureConn) LocalPublicKey() crypto.PublicKey {
	return c.localPubKey
}

// RemotePublicKey 返回远端身份公钥
func (c *secureConn) RemotePublicKey() crypto.PublicKey {
	return c.remotePubKey
}

// Close 关闭 TLS 连接及其底层原始连接；重复调用返回 nil
func (c *secureConn) Close() error {
	if err := c.Conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// ConnState 返回连接状态快照
func (c *secureConn) ConnState() SecureConnState {
	return SecureConnState{
		LocalPeer:       c.localPeer,
		RemotePeer:      c.remotePeer,
		LocalPublicKey:  c.localPubKey,
		RemotePublicKey: c.remotePubKey,
	}
}

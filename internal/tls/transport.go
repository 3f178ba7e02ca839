package tls

import (
	"context"
	gotls "crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/dep2p/go-libp2p-tls/internal/util/logger"
	"github.com/dep2p/go-libp2p-tls/pkg/crypto"
)

var log = logger.Logger("tls")

// defaultHandshakeTimeout 在调用方未设置 ctx 超时时施加的握手超时
//
// 核心本身不强加超时（§5），这只是调用方忘记设置截止时间时的保护网。
const defaultHandshakeTimeout = 10 * time.Second

// Transport 为一个本地 libp2p 身份执行入站/出站 libp2p-tls 握手
//
// 每次 SecureInbound/SecureOutbound 调用都会生成一份全新的临时证书与
// ECDSA 密钥对（§3），握手失败或连接关闭后不做任何复用。
type Transport struct {
	identityKey crypto.PrivateKey
	localPeerID crypto.PeerId
	nextProtos  []string
}

// NewTransport 创建 Transport，identityKey 是本地长期持有的 libp2p 身份私钥
func NewTransport(identityKey crypto.PrivateKey) (*Transport, error) {
	if identityKey == nil {
		return nil, ErrMissingPrivateKey
	}

	localPeerID, err := crypto.PeerIdFromPrivateKey(identityKey)
	if err != nil {
		return nil, fmt.Errorf("tls: derive local peer id: %w", err)
	}

	return &Transport{
		identityKey: identityKey,
		localPeerID: localPeerID,
		nextProtos:  []string{"libp2p"},
	}, nil
}

// LocalPeer 返回本地 PeerId
func (t *Transport) LocalPeer() crypto.PeerId {
	return t.localPeerID
}

// SecureInbound 对入站连接执行服务端角色的握手
//
// 调用方不知道远端身份，因此不做 expectedPeerId 匹配；远端身份由握手
// 本身验证并返回。
func (t *Transport) SecureInbound(ctx context.Context, conn net.Conn) (*secureConn, error) {
	config, capture, err := NewConfigBuilder(t.identityKey).
		WithNextProtos(t.nextProtos).
		BuildServerConfig()
	if err != nil {
		return nil, fmt.Errorf("tls: build server config: %w", err)
	}

	log.Debug("开始入站握手", "localPeer", t.localPeerID.String())
	return t.handshake(ctx, gotls.Server(conn, config), capture)
}

// SecureOutbound 对出站连接执行客户端角色的握手
//
// expectedPeerId 为空值时不做身份匹配（调用方不知道/不关心对端是谁）。
func (t *Transport) SecureOutbound(ctx context.Context, conn net.Conn, expectedPeerId crypto.PeerId) (*secureConn, error) {
	config, capture, err := NewConfigBuilder(t.identityKey).
		WithNextProtos(t.nextProtos).
		BuildClientConfig(expectedPeerId)
	if err != nil {
		return nil, fmt.Errorf("tls: build client config: %w", err)
	}

	log.Debug("开始出站握手", "localPeer", t.localPeerID.String(), "expectedPeer", expectedPeerId.String())
	return t.handshake(ctx, gotls.Client(conn, config), capture)
}

func (t *Transport) handshake(ctx context.Context, conn *gotls.Conn, capture *remotePeerCapture) (*secureConn, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultHandshakeTimeout)
	}
	_ = conn.SetDeadline(deadline)

	if err := conn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		if capture.err != nil {
			return nil, capture.err
		}
		return nil, fmt.Errorf("tls: handshake: %w", err)
	}
	_ = conn.SetDeadline(time.Time{})

	if capture.err != nil {
		_ = conn.Close()
		return nil, capture.err
	}

	remotePeerID := capture.peerID
	log.Debug("握手完成", "localPeer", t.localPeerID.String(), "remotePeer", remotePeerID.String())

	return newSecureConn(
		conn,
		t.localPeerID,
		remotePeerID,
		t.identityKey.GetPublic(),
		remotePeerID.PublicKey(),
	), nil
}

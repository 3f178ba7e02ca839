// Package tls 实现 libp2p-tls 握手核心
//
// 两个持有长期 libp2p 身份密钥（Ed25519、Secp256k1 或 RSA）的节点通过一次
// 双向认证的 TLS 1.3 握手互相证明对私钥的掌控：证书自身携带一个新鲜生成
// 的临时 ECDSA P-256 密钥对，身份私钥对这个临时公钥做交叉签名并写入证书
// 的自定义扩展（OID 1.3.6.1.4.1.53594.1.1）。握手完成后，双方都能仅凭对端
// 证书推导出其 PeerId。
//
// # 组件
//
//   - GenerateCertificate：证书生成（CertificateBuilder）
//   - VerifyPeerCertificate：证书解析与验证（CertificateVerifier）
//   - DuplexToByteStream / ByteStreamToDuplex：字节流与异步双工之间的桥接（StreamBridge）
//   - Transport：把前两者接到一次具体的入站/出站握手上
//
// TLS 1.3 记录层、密钥计划、AEAD 本身不属于这个包；证书自身的密钥对与
// 所有密钥材料一样，每次握手新建，握手结束即随连接一起释放。
//
// # 使用示例
//
//	transport, err := tls.NewTransport(identityKey)
//	if err != nil {
//	    return err
//	}
//	secureConn, err := transport.SecureOutbound(ctx, conn, expectedPeerID)
package tls

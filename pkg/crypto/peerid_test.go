package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerIdFromPublicKey(t *testing.T) {
	for _, kt := range KeyTypes {
		t.Run(kt.String(), func(t *testing.T) {
			_, pub, err := GenerateKeyPair(kt)
			require.NoError(t, err)

			id, err := PeerIdFromPublicKey(pub)
			require.NoError(t, err)
			assert.False(t, id.IsEmpty())

			id2, err := PeerIdFromPublicKey(pub)
			require.NoError(t, err)
			assert.True(t, id.Equals(id2), "PeerIdFromPublicKey must be deterministic")
		})
	}
}

func TestPeerIdFromPublicKeyNil(t *testing.T) {
	_, err := PeerIdFromPublicKey(nil)
	assert.ErrorIs(t, err, ErrNilPublicKey)
}

func TestPeerIdFromPrivateKey(t *testing.T) {
	priv, pub, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)

	id1, err := PeerIdFromPrivateKey(priv)
	require.NoError(t, err)

	id2, err := PeerIdFromPublicKey(pub)
	require.NoError(t, err)

	assert.True(t, id1.Equals(id2))
}

func TestPeerIdFromPrivateKeyNil(t *testing.T) {
	_, err := PeerIdFromPrivateKey(nil)
	assert.ErrorIs(t, err, ErrNilPrivateKey)
}

// Ed25519 公钥的 PublicKey protobuf 编码为 2(tag+varint) + 2(tag+len) + 32 = 36
// 字节，落在 identity 阈值（42）以内，因此必须走 identity 多重哈希分支。
func TestPeerIdUsesIdentityMultihashForShortKeys(t *testing.T) {
	_, pub, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)

	id, err := PeerIdFromPublicKey(pub)
	require.NoError(t, err)

	code, digest, err := decodeMultihashHeader(id.Multihash())
	require.NoError(t, err)
	assert.EqualValues(t, multihashIdentity, code)

	keyBytes, err := MarshalPublicKey(pub)
	require.NoError(t, err)
	assert.Equal(t, keyBytes, digest)
}

// RSA SPKI DER 编码显著超过 42 字节，必须走 sha2-256 多重哈希分支。
func TestPeerIdUsesSHA256MultihashForLongKeys(t *testing.T) {
	_, pub, err := GenerateKeyPair(KeyTypeRSA)
	require.NoError(t, err)

	id, err := PeerIdFromPublicKey(pub)
	require.NoError(t, err)

	code, digest, err := decodeMultihashHeader(id.Multihash())
	require.NoError(t, err)
	assert.EqualValues(t, multihashSHA256, code)
	assert.Len(t, digest, 32)
}

func TestPeerIdStringRoundTrip(t *testing.T) {
	_, pub, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)

	id, err := PeerIdFromPublicKey(pub)
	require.NoError(t, err)

	parsed, err := ParsePeerId(id.String())
	require.NoError(t, err)
	assert.True(t, id.Equals(parsed))
}

func TestDifferentKeysProduceDifferentPeerIds(t *testing.T) {
	_, pub1, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)
	_, pub2, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)

	id1, err := PeerIdFromPublicKey(pub1)
	require.NoError(t, err)
	id2, err := PeerIdFromPublicKey(pub2)
	require.NoError(t, err)

	assert.False(t, id1.Equals(id2))
}

func BenchmarkPeerIdFromPublicKey(b *testing.B) {
	_, pub, _ := GenerateKeyPair(KeyTypeEd25519)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = PeerIdFromPublicKey(pub)
	}
}

package crypto

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyTypeString(t *testing.T) {
	tests := []struct {
		kt   KeyType
		want string
	}{
		{KeyTypeEd25519, "Ed25519"},
		{KeyTypeRSA, "RSA"},
		{KeyTypeSecp256k1, "Secp256k1"},
		{KeyType(99), "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kt.String())
	}
}

// TestKeyTypeValues 密钥类型枚举值是 wire 格式的一部分，必须固定不变（§3、§6）
func TestKeyTypeValues(t *testing.T) {
	assert.EqualValues(t, 0, KeyTypeEd25519)
	assert.EqualValues(t, 1, KeyTypeRSA)
	assert.EqualValues(t, 2, KeyTypeSecp256k1)
}

func TestGenerateKeyPair(t *testing.T) {
	for _, kt := range KeyTypes {
		t.Run(kt.String(), func(t *testing.T) {
			priv, pub, err := GenerateKeyPair(kt)
			require.NoError(t, err)
			require.NotNil(t, priv)
			require.NotNil(t, pub)
			assert.Equal(t, kt, priv.Type())
			assert.Equal(t, kt, pub.Type())
		})
	}

	_, _, err := GenerateKeyPair(KeyType(99))
	assert.ErrorIs(t, err, ErrUnsupportedKeyType)
}

func TestSignAndVerify(t *testing.T) {
	for _, kt := range KeyTypes {
		t.Run(kt.String(), func(t *testing.T) {
			priv, pub, err := GenerateKeyPair(kt)
			require.NoError(t, err)

			data := []byte("test message for signing")
			sig, err := priv.Sign(data)
			require.NoError(t, err)

			valid, err := pub.Verify(data, sig)
			require.NoError(t, err)
			assert.True(t, valid)

			valid, err = pub.Verify([]byte("wrong message"), sig)
			require.NoError(t, err)
			assert.False(t, valid)
		})
	}
}

func TestKeyEqual(t *testing.T) {
	priv1, pub1, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)
	priv2, pub2, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)

	assert.True(t, KeyEqual(pub1, pub1))
	assert.False(t, KeyEqual(pub1, pub2))
	assert.True(t, KeyEqual(priv1, priv1))
	assert.False(t, KeyEqual(priv1, priv2))
}

func TestUnmarshalPublicKey(t *testing.T) {
	for _, kt := range KeyTypes {
		t.Run(kt.String(), func(t *testing.T) {
			_, pub, err := GenerateKeyPair(kt)
			require.NoError(t, err)

			raw, err := pub.Raw()
			require.NoError(t, err)

			pub2, err := UnmarshalPublicKey(kt, raw)
			require.NoError(t, err)
			assert.True(t, KeyEqual(pub, pub2))
		})
	}

	_, err := UnmarshalPublicKey(KeyType(99), []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedKeyType)
}

func TestUnmarshalPrivateKey(t *testing.T) {
	for _, kt := range KeyTypes {
		t.Run(kt.String(), func(t *testing.T) {
			priv, _, err := GenerateKeyPair(kt)
			require.NoError(t, err)

			raw, err := priv.Raw()
			require.NoError(t, err)

			priv2, err := UnmarshalPrivateKey(kt, raw)
			require.NoError(t, err)
			assert.True(t, KeyEqual(priv, priv2))
		})
	}
}

func TestGetPublic(t *testing.T) {
	for _, kt := range KeyTypes {
		t.Run(kt.String(), func(t *testing.T) {
			priv, pub, err := GenerateKeyPair(kt)
			require.NoError(t, err)
			assert.True(t, KeyEqual(pub, priv.GetPublic()))
		})
	}
}

func TestMarshalPublicKeyRoundTripsThroughProto(t *testing.T) {
	for _, kt := range KeyTypes {
		t.Run(kt.String(), func(t *testing.T) {
			_, pub, err := GenerateKeyPair(kt)
			require.NoError(t, err)

			protoBytes, err := MarshalPublicKey(pub)
			require.NoError(t, err)

			pub2, err := UnmarshalPublicKeyProto(protoBytes)
			require.NoError(t, err)
			assert.True(t, KeyEqual(pub, pub2))
		})
	}
}

func TestDeterministicEd25519Generation(t *testing.T) {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}

	priv1, _, err := GenerateKeyPairWithReader(KeyTypeEd25519, bytes.NewReader(seed))
	require.NoError(t, err)
	priv2, _, err := GenerateKeyPairWithReader(KeyTypeEd25519, bytes.NewReader(seed))
	require.NoError(t, err)

	assert.True(t, KeyEqual(priv1, priv2))
}

func BenchmarkGenerateKeyPair(b *testing.B) {
	for _, kt := range KeyTypes {
		b.Run(kt.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _, _ = GenerateKeyPair(kt)
			}
		})
	}
}

func BenchmarkSign(b *testing.B) {
	data := make([]byte, 256)
	rand.Read(data)

	for _, kt := range KeyTypes {
		priv, _, _ := GenerateKeyPair(kt)
		b.Run(kt.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = priv.Sign(data)
			}
		})
	}
}

func BenchmarkVerify(b *testing.B) {
	data := make([]byte, 256)
	rand.Read(data)

	for _, kt := range KeyTypes {
		priv, pub, _ := GenerateKeyPair(kt)
		sig, _ := priv.Sign(data)
		b.Run(kt.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = pub.Verify(data, sig)
			}
		})
	}
}

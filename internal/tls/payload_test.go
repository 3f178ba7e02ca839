package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genSPKI(t *testing.T) []byte {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return der
}

func TestEncodeSignaturePayloadPrefix(t *testing.T) {
	spki := genSPKI(t)
	payload, err := encodeSignaturePayload(spki)
	require.NoError(t, err)

	assert.Equal(t, signaturePayloadPrefix, string(payload[:len(signaturePayloadPrefix)]))
	assert.Len(t, signaturePayloadPrefix, 21)
}

func TestEncodeSignaturePayloadDeterministic(t *testing.T) {
	spki := genSPKI(t)
	p1, err := encodeSignaturePayload(spki)
	require.NoError(t, err)
	p2, err := encodeSignaturePayload(spki)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestEncodeSignaturePayloadInvalidDER(t *testing.T) {
	_, err := encodeSignaturePayload([]byte("not a valid SPKI"))
	assert.ErrorIs(t, err, ErrInvalidCertificate)
}

package tls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-libp2p-tls/pkg/crypto"
)

func TestSecureConnState(t *testing.T) {
	localPriv, localPub, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	require.NoError(t, err)
	_, remotePub, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	require.NoError(t, err)

	localID, err := crypto.PeerIdFromPrivateKey(localPriv)
	require.NoError(t, err)
	remoteID, err := crypto.PeerIdFromPublicKey(remotePub)
	require.NoError(t, err)

	conn := newSecureConn(nil, localID, remoteID, localPub, remotePub)

	state := conn.ConnState()
	assert.True(t, state.LocalPeer.Equals(localID))
	assert.True(t, state.RemotePeer.Equals(remoteID))
	assert.True(t, crypto.KeyEqual(state.LocalPublicKey, localPub))
	assert.True(t, crypto.KeyEqual(state.RemotePublicKey, remotePub))
}

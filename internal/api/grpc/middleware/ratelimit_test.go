package middleware

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/peer"
)

func peerContext(addr string) context.Context {
	tcp, _ := net.ResolveTCPAddr("tcp", addr)
	return peer.NewContext(context.Background(), &peer.Peer{Addr: tcp})
}

func TestPeerLimiter_Limit(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewPeerLimiter(1, 2)
	l.now = func() time.Time { return now }

	a := peerContext("10.0.0.1:5000")
	aOtherPort := peerContext("10.0.0.1:6000")
	b := peerContext("10.0.0.2:5000")

	require.NoError(t, l.Limit(a))
	require.NoError(t, l.Limit(aOtherPort))
	assert.Error(t, l.Limit(a), "burst is shared across ports of one host")
	assert.NoError(t, l.Limit(b))

	now = now.Add(time.Second)
	assert.NoError(t, l.Limit(a))
}

func TestPeerLimiter_EvictsIdle(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewPeerLimiter(1, 1)
	l.now = func() time.Time { return now }

	require.NoError(t, l.Limit(peerContext("10.0.0.1:1")))
	require.NoError(t, l.Limit(peerContext("10.0.0.2:1")))
	assert.Equal(t, 2, l.size())

	now = now.Add(DefaultIdleTTL + time.Second)
	require.NoError(t, l.Limit(peerContext("10.0.0.3:1")))
	assert.Equal(t, 1, l.size())
}

func TestPeerKey_NoPeer(t *testing.T) {
	assert.Equal(t, "unknown", peerKey(context.Background()))
}

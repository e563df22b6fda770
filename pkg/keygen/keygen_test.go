package keygen

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Caqil/mpc-ecdsa/internal/math"
	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
	"github.com/Caqil/mpc-ecdsa/pkg/mpc"
	"github.com/Caqil/mpc-ecdsa/pkg/network"
)

func runDKG(t *testing.T, curveType curve.CurveType, n, k int) ([]*KeyShare, *curve.Point, curve.Curve) {
	t.Helper()

	c, err := curve.NewCurve(curveType)
	require.NoError(t, err)
	config, err := mpc.NewConfig(n, k)
	require.NoError(t, err)
	transport := network.NewMemoryTransport()
	t.Cleanup(func() { _ = transport.Close() })

	session := NewSessionID()
	keys := make([]*KeyShare, n)

	g, ctx := errgroup.WithContext(context.Background())
	for _, id := range config.Parties() {
		engine, err := mpc.NewEngine(id, config, transport, c.ScalarField(), mpc.WithReceiveTimeout(5*time.Second))
		require.NoError(t, err)
		dkg, err := NewDKG(engine, c, session, nil)
		require.NoError(t, err)

		g.Go(func() error {
			ks, err := dkg.Run(ctx)
			keys[id-1] = ks
			return err
		})
	}

	dealer, err := mpc.NewEngine(mpc.DealerID, config, transport, c.ScalarField(), mpc.WithReceiveTimeout(5*time.Second))
	require.NoError(t, err)

	var observed *curve.Point
	g.Go(func() error {
		var err error
		observed, _, err = Observe(ctx, dealer, c, session)
		return err
	})

	require.NoError(t, g.Wait())
	return keys, observed, c
}

func TestDKG(t *testing.T) {
	for _, curveType := range []curve.CurveType{curve.Secp256k1, curve.P256} {
		t.Run(curveType.String(), func(t *testing.T) {
			keys, observed, c := runDKG(t, curveType, 3, 2)

			for _, ks := range keys {
				require.NoError(t, ks.Validate())
				require.True(t, ks.PublicKey.IsEqual(keys[0].PublicKey))
				require.Len(t, ks.PublicShares, 3)
			}
			require.True(t, observed.IsEqual(keys[0].PublicKey))

			// any two fragments recover the private key behind Q
			field := c.ScalarField()
			for _, pair := range [][]int{{0, 1}, {0, 2}, {1, 2}} {
				points := make([]*math.Point, 0, 2)
				for _, i := range pair {
					points = append(points, &math.Point{
						X: field.FromInt64(int64(keys[i].PartyID)),
						Y: field.NewElement(keys[i].Share),
					})
				}
				x, err := math.Reconstruct(points, 2)
				require.NoError(t, err)

				q, err := c.ScalarBaseMult(x.Value())
				require.NoError(t, err)
				require.True(t, q.IsEqual(keys[0].PublicKey), "pair %v", pair)
			}
		})
	}
}

func TestKeyShareJSONRoundTrip(t *testing.T) {
	keys, _, _ := runDKG(t, curve.Secp256k1, 3, 2)

	data, err := json.Marshal(keys[1])
	require.NoError(t, err)

	var restored KeyShare
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, keys[1].PartyID, restored.PartyID)
	require.Equal(t, 0, keys[1].Share.Cmp(restored.Share))
	require.True(t, restored.PublicKey.IsEqual(keys[1].PublicKey))
	require.NoError(t, restored.Validate())
}

func TestValidateRejectsTamperedShare(t *testing.T) {
	keys, _, _ := runDKG(t, curve.Secp256k1, 3, 2)

	ks := *keys[0]
	ks.Share = keys[1].Share
	require.ErrorIs(t, ks.Validate(), ErrInvalidKeyShare)
}

func TestNewDKGValidation(t *testing.T) {
	c, err := curve.NewCurve(curve.Secp256k1)
	require.NoError(t, err)
	config, err := mpc.NewConfig(3, 2)
	require.NoError(t, err)
	transport := network.NewMemoryTransport()

	demo, err := mpc.NewEngine(1, config, transport, math.DemoField())
	require.NoError(t, err)
	_, err = NewDKG(demo, c, "s", nil)
	require.ErrorIs(t, err, ErrFieldMismatch)

	engine, err := mpc.NewEngine(1, config, transport, c.ScalarField())
	require.NoError(t, err)
	_, err = NewDKG(engine, c, "", nil)
	require.ErrorIs(t, err, ErrEmptySession)

	_, err = NewDKG(nil, c, "s", nil)
	require.ErrorIs(t, err, ErrNilEngine)

	dealer, err := mpc.NewEngine(mpc.DealerID, config, transport, c.ScalarField())
	require.NoError(t, err)
	_, err = NewDKG(dealer, c, "s", nil)
	require.ErrorIs(t, err, ErrInvalidPartyID)
}

package session

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/api"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/devserver"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/realtime"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/store"
)

type fixture struct {
	auth   *store.AuthStore
	notifs *store.NotificationStore
	rt     *realtime.Adapter
	ctrl   *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := devserver.New("test-secret", zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	auth := store.NewAuthStore()
	notifs := store.NewNotificationStore()
	client := api.New(ts.URL, "pk_test", auth.Token, zerolog.Nop())
	rt := realtime.NewAdapter("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", notifs, zerolog.Nop())

	return &fixture{
		auth:   auth,
		notifs: notifs,
		rt:     rt,
		ctrl:   New(client, auth, notifs, rt, zerolog.Nop()),
	}
}

func TestLoginEstablishesSessionAndChannel(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ctrl.Login(context.Background(), "operator@example.com", "password"))

	assert.Equal(t, store.AuthAuthenticated, f.auth.Phase())
	require.NotNil(t, f.auth.User())
	assert.Equal(t, models.RoleOperator, f.auth.User().Role)
	assert.Equal(t, "truck-1", f.auth.User().TruckID)
	assert.Equal(t, realtime.StateConnected, f.rt.State())

	f.ctrl.Logout(context.Background())
	assert.Equal(t, store.AuthUnauthenticated, f.auth.Phase())
	assert.Empty(t, f.auth.Token())
	assert.Equal(t, realtime.StateDisconnected, f.rt.State())
}

func TestLoginFailureSurfacesNotification(t *testing.T) {
	f := newFixture(t)

	err := f.ctrl.Login(context.Background(), "customer@example.com", "wrong")
	require.Error(t, err)

	assert.Equal(t, store.AuthError, f.auth.Phase())
	assert.NotEmpty(t, f.auth.Err())
	assert.Equal(t, realtime.StateDisconnected, f.rt.State())

	notifs := f.notifs.List()
	require.Len(t, notifs, 1)
	assert.Equal(t, models.SeverityError, notifs[0].Severity)
}

func TestResumeReconnectsRestoredSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Login(context.Background(), "customer@example.com", "password"))
	token := f.auth.Token()
	f.rt.Disconnect()

	restored := f.auth.Session()
	require.NotNil(t, restored)
	f.auth.Restore(*restored)
	f.ctrl.Resume()

	assert.Equal(t, realtime.StateConnected, f.rt.State())
	assert.Equal(t, token, f.auth.Token())
}

func TestResumeDropsExpiredSession(t *testing.T) {
	f := newFixture(t)

	expired := signedToken(t, time.Now().Add(-time.Hour))
	f.auth.Restore(models.Session{
		Token: expired,
		User:  models.User{ID: "u-1", Role: models.RoleCustomer},
	})

	f.ctrl.Resume()
	assert.Equal(t, store.AuthUnauthenticated, f.auth.Phase())
	assert.Equal(t, realtime.StateDisconnected, f.rt.State())
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, TokenExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, TokenExpired(signedToken(t, now.Add(-time.Minute)), now))
	assert.True(t, TokenExpired("garbage", now))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1",
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

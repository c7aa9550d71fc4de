// Package session drives the login/logout flow: it moves the auth store
// through its phases and brings the realtime channel up and down with the
// session.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/api"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/realtime"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/store"
)

type Controller struct {
	api    *api.Client
	auth   *store.AuthStore
	notifs *store.NotificationStore
	rt     *realtime.Adapter
	log    zerolog.Logger
}

func New(client *api.Client, auth *store.AuthStore, notifs *store.NotificationStore, rt *realtime.Adapter, logger zerolog.Logger) *Controller {
	return &Controller{
		api:    client,
		auth:   auth,
		notifs: notifs,
		rt:     rt,
		log:    logger.With().Str("component", "session").Logger(),
	}
}

// Login authenticates and, on success, establishes the realtime channel.
// A realtime failure does not fail the login; the connectivity indicator
// reflects it and the polling fallback keeps lists fresh.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.auth.BeginLogin()

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.auth.LoginFailure(err.Error())
		c.notifs.Add(models.SeverityError, "Login failed: "+err.Error(), 0)
		return err
	}

	c.auth.LoginSuccess(resp.User, resp.Token)
	if err := c.rt.Connect(resp.Token); err != nil {
		c.log.Warn().Err(err).Msg("realtime channel unavailable after login")
	}
	return nil
}

// Logout tears the session down. The server call is best-effort; local
// state is cleared regardless.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.log.Warn().Err(err).Msg("server logout failed")
	}
	c.rt.Disconnect()
	c.auth.Logout()
}

// Resume re-establishes the realtime channel for a session restored from
// disk, discarding it when the token has already expired.
func (c *Controller) Resume() {
	sess := c.auth.Session()
	if sess == nil {
		return
	}
	if TokenExpired(sess.Token, time.Now()) {
		c.log.Info().Msg("restored session expired, logging out")
		c.auth.Logout()
		return
	}
	if err := c.rt.Connect(sess.Token); err != nil {
		c.log.Warn().Err(err).Msg("realtime channel unavailable on resume")
	}
}

// TokenExpired inspects the token's exp claim without verifying the
// signature; verification is the server's job.
func TokenExpired(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

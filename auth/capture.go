/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CaptureCode listens on addr for the OAuth redirect and returns the
// authorization code. The redirect must carry the expected state.
func CaptureCode(ctx context.Context, addr, path, state string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	return CaptureCodeOn(ctx, ln, path, state)
}

// CaptureCodeOn is CaptureCode on an existing listener, which it closes.
func CaptureCodeOn(ctx context.Context, ln net.Listener, path, state string) (string, error) {
	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)
	deliver := func(r result) {
		select {
		case results <- r:
		default:
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(path, func(c *gin.Context) {
		if e := c.Query("error"); e != "" {
			c.String(http.StatusBadRequest, "Authorization failed: %s", e)
			deliver(result{err: fmt.Errorf("authorization failed: %s: %s", e, c.Query("error_description"))})
			return
		}
		if c.Query("state") != state {
			c.String(http.StatusBadRequest, "State mismatch")
			return
		}
		code := c.Query("code")
		if code == "" {
			c.String(http.StatusBadRequest, "Missing code")
			return
		}
		c.String(http.StatusOK, "Authorization complete. You can close this window.")
		deliver(result{code: code})
	})

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deliver(result{err: err})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-results:
		return r.code, r.err
	}
}

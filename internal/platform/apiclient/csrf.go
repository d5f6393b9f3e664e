package apiclient

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// CSRFToken returns the token for state-changing requests: the configured
// override, else the value of the CSRF cookie held in the client's jar. When
// the jar has no such cookie the backend root page is fetched once to obtain
// it. An empty string means no token is available.
func (c *Client) CSRFToken(ctx context.Context) string {
	if c.csrfToken != "" {
		return c.csrfToken
	}
	if token := c.cookieValue(); token != "" {
		return token
	}
	c.primeCookies(ctx)
	return c.cookieValue()
}

func (c *Client) cookieValue() string {
	if c.http.Jar == nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == c.csrfCookie {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) primeCookies(ctx context.Context) {
	if c.http.Jar == nil {
		return
	}
	u := *c.base
	u.Path = c.base.Path + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("prime csrf cookie", zap.Error(err))
		return
	}
	_ = resp.Body.Close()
}

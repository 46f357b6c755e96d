package website

import (
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// HTMX request and response headers.
const (
	HeaderHXRequest    = "HX-Request"
	HeaderHXTarget     = "HX-Target"
	HeaderHXCurrentURL = "HX-Current-URL"
	HeaderHXReplaceURL = "HX-Replace-Url"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get(HeaderHXRequest) == "true"
}

// HXTarget returns the id of the element htmx will swap, or "".
func HXTarget(c echo.Context) string {
	if !IsHTMX(c) {
		return ""
	}
	return c.Request().Header.Get(HeaderHXTarget)
}

// HXCurrentURL returns the browser location htmx sent with the request, or
// nil when there is none.
func HXCurrentURL(c echo.Context) *url.URL {
	if !IsHTMX(c) {
		return nil
	}
	u, err := url.Parse(c.Request().Header.Get(HeaderHXCurrentURL))
	if err != nil || u.Path == "" {
		return nil
	}
	return u
}

package website

import (
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/cleanroomlabs/website/filter"
)

// Action parameters carry blog filter events on a request. They are
// applied on top of the restored state and never appear in a canonical URL.
const (
	ParamToggle = "toggle"
	ParamClear  = "clear"
)

// requestRouter adapts one HTTP request to filter.Router. The query is
// ready as soon as the request arrives. A replace is recorded rather than
// performed; the handler turns it into an HX-Replace-Url header or a
// redirect.
type requestRouter struct {
	query    url.Values
	target   string
	replaced bool
}

func newRequestRouter(c echo.Context) *requestRouter {
	q := url.Values{}
	for k, v := range c.QueryParams() {
		if k == ParamToggle || k == ParamClear {
			continue
		}
		q[k] = v
	}
	return &requestRouter{query: q}
}

func (r *requestRouter) Query() (url.Values, bool) {
	return r.query, true
}

func (r *requestRouter) ReplaceQuery(path string, q url.Values) {
	r.target = filter.ReplaceURL(path, q)
	r.replaced = true
}

package browser

import (
	"math"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"

	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
)

// ToCookieParams converts decrypted cookies to CDP parameters. Cookies
// without a domain cannot be scoped and are returned in skipped.
func ToCookieParams(cookies []cookievault.Cookie) (params []*network.CookieParam, skipped []string) {
	params = make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		if c.Domain == "" {
			skipped = append(skipped, c.Name)
			continue
		}

		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: sameSite(c.SameSite),
		}
		if p.Path == "" {
			p.Path = "/"
		}
		// SameSite=None is rejected by Chrome on non-secure cookies.
		if p.SameSite == network.CookieSameSiteNone {
			p.Secure = true
		}
		if !c.IsSession() {
			sec, frac := math.Modf(c.Expires)
			t := cdp.TimeSinceEpoch(time.Unix(int64(sec), int64(frac*1e9)))
			p.Expires = &t
		}
		params = append(params, p)
	}
	return params, skipped
}

// sameSite maps Playwright and extension spellings. Unknown values leave
// the attribute unset.
func sameSite(v string) network.CookieSameSite {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return network.CookieSameSiteStrict
	case "lax":
		return network.CookieSameSiteLax
	case "none", "no_restriction":
		return network.CookieSameSiteNone
	default:
		return ""
	}
}

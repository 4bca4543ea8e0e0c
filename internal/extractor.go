package internal

// Source reads one candidate value from a request. It reports false when
// the value is absent or rejected.
type Source func(Context) (string, bool)

// HeaderSource reads a request header.
func HeaderSource(name string) Source {
	return func(c Context) (string, bool) {
		v := c.Header(name)
		return v, v != ""
	}
}

// QuerySource reads a query parameter.
func QuerySource(name string) Source {
	return func(c Context) (string, bool) {
		v := c.Query(name)
		return v, v != ""
	}
}

// ParamSource reads a route parameter such as {id}.
func ParamSource(name string) Source {
	return func(c Context) (string, bool) {
		v := c.Param(name)
		return v, v != ""
	}
}

// Accept returns a source that drops values rejected by ok.
func (s Source) Accept(ok func(string) bool) Source {
	return func(c Context) (string, bool) {
		v, found := s(c)
		if !found || !ok(v) {
			return "", false
		}
		return v, true
	}
}

// FirstOf returns a source yielding the first value found among sources.
func FirstOf(sources ...Source) Source {
	return func(c Context) (string, bool) {
		for _, src := range sources {
			if v, ok := src(c); ok {
				return v, true
			}
		}
		return "", false
	}
}

package browser

import "errors"

var (
	ErrLaunchFailed    = errors.New("browser: launch failed")
	ErrSessionClosed   = errors.New("browser: session closed")
	ErrNoCookies       = errors.New("browser: no usable cookies")
	ErrSetCookies      = errors.New("browser: set cookies failed")
	ErrBrowserNotFound = errors.New("browser: executable not found")
)

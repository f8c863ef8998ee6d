package server

import "errors"

var (
	errNoApplication = errors.New("server requires an application")
	errNoEndpoints   = errors.New("server requires at least one endpoint")
)

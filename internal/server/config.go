package server

import (
	"github.com/kamalkashyapp/fanout/internal/app"
	"github.com/kamalkashyapp/fanout/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server (the CLI
	// dispatches in-process and does not require the network).
	ListenAddr string

	AppConfig *app.Config
	Logger    logging.Logger
}

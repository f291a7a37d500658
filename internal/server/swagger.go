package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title Fanout API
// @version 0.1
// @description Interactive documentation for the fanout dispatch API surface.
// @contact.name Fanout Maintainers
// @contact.url https://github.com/kamalkashyapp/fanout
// @BasePath /

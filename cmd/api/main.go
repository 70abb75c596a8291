package main

import "github.com/adanyl0v/go-todo-api/internal/app"

func main() {
	app.InitDefaultLogger("todo-api")
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectStore()
	defer app.DisconnectStore()

	app.MustListenAndServeHTTP()
}

package main

import "github.com/adanyl0v/go-todo-api/internal/app"

func main() {
	app.InitDefaultLogger("todo-lambda")
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	// Connected once per cold start and reused by every invocation.
	app.MustConnectStore()
	defer app.DisconnectStore()

	app.MustStartLambda()
}

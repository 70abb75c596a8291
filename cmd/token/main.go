// Command token signs a development token accepted by the local gateway
// authorizer of the API server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/adanyl0v/go-todo-api/internal/app"
	"github.com/adanyl0v/go-todo-api/internal/gateway"
)

func main() {
	var params gateway.TokenParams
	flag.StringVar(&params.Subject, "sub", "", "user id placed in the sub claim (required)")
	flag.StringVar(&params.Email, "email", "", "email claim")
	flag.StringVar(&params.Username, "username", "", "username claim")
	flag.Parse()

	app.InitStderrLogger("todo-token")
	app.MustReadEnv()

	token, expiresAt, err := app.MustNewGatewayAuthorizer().IssueToken(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Println(token)
}

// Command token emite un bearer token firmado con JWT_SECRET para pruebas locales.
//
//	go run ./cmd/token -uid u1 -email ana@example.com
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/pkg/config"
)

func main() {
	uid := flag.String("uid", "", "id del usuario")
	email := flag.String("email", "", "correo del usuario")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	issuer := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	tok, err := issuer.Issue(auth.Caller{UserID: *uid, Email: *email})
	if err != nil {
		fmt.Fprintln(os.Stderr, "emitir token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}

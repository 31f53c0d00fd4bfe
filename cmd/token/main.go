// token emite un JWT de operador firmado con JWT_SECRET, para probar /api en local.
//
// Uso: go run ./cmd/token <operador> <rol> [horas] [bodega]
// Roles: admin, bodeguero, consulta. Vigencia por defecto: 8 horas.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Uso: token <operador> <rol> [horas] [bodega]")
		os.Exit(2)
	}
	op := jwt.Operator{ID: os.Args[1], Role: strings.ToLower(os.Args[2])}
	switch op.Role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleConsulta:
	default:
		fmt.Fprintf(os.Stderr, "Rol desconocido %q\n", op.Role)
		os.Exit(2)
	}

	hours := 8
	if len(os.Args) > 3 {
		n, err := strconv.Atoi(os.Args[3])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Horas inválidas %q\n", os.Args[3])
			os.Exit(2)
		}
		hours = n
	}
	if len(os.Args) > 4 {
		op.Warehouse = os.Args[4]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, op, time.Duration(hours)*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}

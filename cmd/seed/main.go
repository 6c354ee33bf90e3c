// seed aprovisiona la tabla usuarios a partir de un archivo JSON o YAML sin levantar el servidor.
//
// Uso: go run ./cmd/seed [-path data/usuarios.json] [-encoding latin1] [-reset]
// Sin -reset solo inserta si la tabla está vacía.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/usuarios-rbac/internal/application/provisioning"
	"github.com/jhoicas/usuarios-rbac/internal/infrastructure/seedfile"
	"github.com/jhoicas/usuarios-rbac/internal/infrastructure/store"
	"github.com/jhoicas/usuarios-rbac/pkg/config"
	"github.com/jhoicas/usuarios-rbac/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	path := flag.String("path", cfg.Seed.Path, "archivo semilla (.json, .yaml, .yml)")
	encoding := flag.String("encoding", cfg.Seed.Encoding, "codificación del archivo: utf-8 o latin1")
	reset := flag.Bool("reset", cfg.Seed.Reset, "borrar todos los usuarios y volver a poblar")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	records, err := seedfile.Load(*path, seedfile.Options{Encoding: *encoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer %s: %v\n", *path, err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacén (%s): %v\n", cfg.DB.Driver, err)
		os.Exit(1)
	}
	defer st.Close()

	seeder := provisioning.NewSeeder(st.Tx, provisioning.BcryptHasher{Cost: cfg.Seed.BcryptCost}, cfg.Seed.DefaultPassword, log)
	var n int
	if *reset {
		n, err = seeder.Reseed(ctx, records)
	} else {
		n, err = seeder.SeedIfEmpty(ctx, records)
	}
	if err != nil {
		st.Close()
		fmt.Fprintf(os.Stderr, "Aprovisionar: %v\n", err)
		os.Exit(1)
	}

	if n == 0 {
		fmt.Println("La tabla usuarios ya tenía datos; no se insertó nada (use -reset para regenerar).")
		return
	}
	fmt.Printf("Insertados %d usuarios desde %s (driver %s)\n", n, *path, st.Driver)
}

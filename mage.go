//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	jetOutput          = "gen"
	sqliteFileLocation = "matchrating.sqlite"
	schemaFileLocation = "schema.sqlite"
	serverBin          = "./bin/server"
	certgenBin         = "./bin/certgen"
)

const (
	jetTool     = "github.com/go-jet/jet/v2/cmd/jet@v2.9.0"
	migrateTool = "github.com/golang-migrate/migrate/v4/cmd/migrate@v4.15.2"
	lintTool    = "github.com/golangci/golangci-lint/cmd/golangci-lint@v1.55.2"
)

const (
	serverConfigPath = "configs/server.toml"
	botConfigPath    = "configs/bot.toml"
)

var cgo = map[string]string{
	"CGO_ENABLED": "1",
}

func goModDownload() error {
	return sh.Run("go", "mod", "download")
}

// Build builds server and certgen binaries
func Build() error {
	mg.Deps(goModDownload)
	if err := sh.RunWith(cgo, "go", "build", "-o", serverBin, "./cmd"); err != nil {
		return err
	}
	return sh.Run("go", "build", "-o", certgenBin, "./cmd/certgen")
}

// Run starts server, migrations are applied on startup
func Run() error {
	mg.Deps(Build)
	return sh.Run(serverBin, "-server-config", serverConfigPath, "-bot-config", botConfigPath)
}

// GenJet regenerates gen/ from a freshly migrated schema
func GenJet() error {
	if err := os.Remove(schemaFileLocation); err != nil && !os.IsNotExist(err) {
		return err
	}
	defer os.Remove(schemaFileLocation)
	err := sh.RunWith(cgo,
		"go", "run", "-tags", "sqlite3", migrateTool,
		"-path", "migrations",
		"-database", "sqlite3://"+schemaFileLocation,
		"up",
	)
	if err != nil {
		return err
	}
	return sh.RunWith(cgo, "go", "run", jetTool, "-source", "sqlite", "-dsn", schemaFileLocation, "-path", jetOutput)
}

func Lint() error {
	return sh.Run("go", "run", lintTool, "run", "./...")
}

// Test runs unit and sqlite integration tests
func Test() error {
	return sh.RunWithV(cgo, "go", "test", "-race", "./...")
}

// Clean removes binaries and the local database
func Clean() error {
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	return sh.Rm(sqliteFileLocation)
}

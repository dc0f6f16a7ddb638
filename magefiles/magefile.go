//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary     = "bin/fprform"
	mainPkg    = "./cmd/fprform"
	configFile = "configs/config.yaml"
	fieldsFile = "configs/fields.json"
)

// Build tidies deps, then compiles to ./bin/fprform.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building server binary...")
	return sh.Run("go", "build", "-o", binary, mainPkg)
}

// Fields validates the field configuration against its schema.
func Fields() error {
	fmt.Println(">> Checking", fieldsFile)
	return sh.RunV("go", "run", mainPkg, "check-fields", fieldsFile)
}

// Run builds then serves the form.
func Run() error {
	mg.Deps(Build, Fields)
	fmt.Println(">> Starting server on :8080 ...")
	return sh.RunV(binary, "serve", "--config", configFile)
}

// Dev starts the server via go run with debug logging.
func Dev() error {
	mg.Deps(Fields)
	fmt.Println(">> Dev mode: go run", mainPkg, "serve ...")
	cmd := exec.Command("go", "run", mainPkg, "serve", "--config", configFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "LOGGING_LEVEL=debug", "LOGGING_FORMAT=console")
	return cmd.Run()
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests with the race detector.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	for _, f := range []string{"fprform.db", "fprform.db-shm", "fprform.db-wal"} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Install builds and installs the binary to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.Run("go", "install", mainPkg)
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}

// cmd/clubctl/main.go
// Operational commands for the yacht club API.
//
// Usage:
//
//	go run ./cmd/clubctl migrate
//	go run ./cmd/clubctl hash-password --password s3cret
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

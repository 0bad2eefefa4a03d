package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/colorcheck/internal/admin"
)

func main() {
	os.Exit(admin.Main(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

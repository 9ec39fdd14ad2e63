package main

import (
	"os"

	"somni-backend/internal/app"
)

func main() {
	os.Exit(app.Run())
}

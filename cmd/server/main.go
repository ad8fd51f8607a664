package main

import (
	"github.com/eleven-am/insight-backend/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}

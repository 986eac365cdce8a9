package main

import (
	"go-jobportal-api/app"
)

func main() {
	app.Run()
}

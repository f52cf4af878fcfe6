package main

import "github.com/moesamiii/production/internal/app"

func main() {
	app.Run()
}

package main

import "github.com/geos-esm/geosrecipe/cmd/geosrecipe/internal"

func main() {
	internal.Execute()
}

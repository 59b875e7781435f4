//go:build !go1.13 || windows
// +build !go1.13 windows

package preview

import (
	"fmt"
	"image"
)

func PrintRasTerm(i image.Image) {
	fmt.Printf("rasterm not supported below Go 1.13 or on windows\n")
}

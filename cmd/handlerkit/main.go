// Package main is the entry point for handlerkit.
package main

func main() {
	Execute()
}

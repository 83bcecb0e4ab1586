// Package main is the entry point for the recordmap CLI.
package main

func main() {
	Execute()
}

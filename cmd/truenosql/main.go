// Idiomatic entrypoint delegating to the Cobra root command in root.go.
package main

func main() {
	Execute()
}

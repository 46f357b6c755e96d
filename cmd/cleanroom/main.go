// Command cleanroom builds and serves the Cleanroom Labs website.
package main

func main() {
	Execute()
}

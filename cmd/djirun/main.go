// Command djirun converts DJI camera telemetry exports to CSV.
package main

import "github.com/mesh-intelligence/djirun/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/Tariqai1/student-productivity-app/internal/cli"

func main() {
	cli.Execute()
}
